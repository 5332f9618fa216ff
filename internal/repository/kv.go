package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
)

type sqlKVRepository struct {
	db *sqlx.DB
}

func (r *sqlKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.GetContext(ctx, &value, r.db.Rebind("SELECT value FROM kv_store WHERE key = ?"), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set is a single upsert statement so the record is replaced atomically
func (r *sqlKVRepository) Set(ctx context.Context, key, value string) error {
	q := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), key, value)
	return err
}

const kvFileName = "state.json"

// FileKVRepository implements KVRepository on a JSON file in dir
type FileKVRepository struct {
	dir string
	mu  sync.Mutex
}

// NewFileKVRepository creates a FileKVRepository for the given directory
func NewFileKVRepository(dir string) *FileKVRepository {
	return &FileKVRepository{dir: dir}
}

// Path returns the full path to the state file
func (r *FileKVRepository) Path() string {
	return filepath.Join(r.dir, kvFileName)
}

func (r *FileKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set writes a temp file and renames it over the old one
func (r *FileKVRepository) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return err
	}
	values[key] = value

	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, r.Path())
}

func (r *FileKVRepository) load() (map[string]string, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}
