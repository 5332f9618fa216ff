package location

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
)

// Store persists the single last known location record
type Store interface {
	// Load returns false when no record has been saved
	Load(ctx context.Context) (model.LocationRecord, bool, error)
	Save(ctx context.Context, rec model.LocationRecord) error
}

// RecordStore keeps the record as JSON under model.LastLocationKey
type RecordStore struct {
	kv repository.KVRepository
}

// NewRecordStore creates a Store on top of a key-value repository
func NewRecordStore(kv repository.KVRepository) *RecordStore {
	return &RecordStore{kv: kv}
}

func (s *RecordStore) Load(ctx context.Context) (model.LocationRecord, bool, error) {
	var rec model.LocationRecord

	raw, ok, err := s.kv.Get(ctx, model.LastLocationKey)
	if err != nil || !ok {
		return rec, false, err
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return rec, false, fmt.Errorf("failed to decode %s: %w", model.LastLocationKey, err)
	}
	return rec, true, nil
}

func (s *RecordStore) Save(ctx context.Context, rec model.LocationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, model.LastLocationKey, string(data))
}
