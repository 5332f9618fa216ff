// Package stats reports runtime, database and location statistics.
package stats

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time      `json:"timestamp"`
	Memory    MemoryStats    `json:"memory"`
	Database  DatabaseStats  `json:"database"`
	Runtime   RuntimeStats   `json:"runtime"`
	Location  *LocationStats `json:"location,omitempty"`
}

type MemoryStats struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"total_alloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"num_gc"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapInuse  uint64 `json:"heap_inuse"`
}

type DatabaseStats struct {
	Type         string      `json:"type"`
	TotalRecords int64       `json:"total_records"`
	SizeBytes    int64       `json:"size_bytes"`
	TableStats   []TableStat `json:"table_stats"`
	// GazetteerLoaded is false until the seeder imported cities
	GazetteerLoaded bool `json:"gazetteer_loaded"`
}

type TableStat struct {
	Name      string `json:"name"`
	RowCount  int64  `json:"row_count"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

type RuntimeStats struct {
	NumGoroutines int   `json:"num_goroutines"`
	NumCPU        int   `json:"num_cpu"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// LocationStats describes the current location state
type LocationStats struct {
	Status string   `json:"status"`
	Name   string   `json:"name,omitempty"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// LocationSource exposes the current location state
type LocationSource interface {
	State() model.LocationState
}

var tables = []string{"kv_store", "countries", "admin1_codes", "cities"}

type Collector struct {
	db         *sqlx.DB
	config     config.DBConfig
	location   LocationSource
	startTime  time.Time
	cachedMem  *MemoryStats
	cacheTime  time.Time
	cacheMutex sync.RWMutex
}

var memStatsCacheDuration = 5 * time.Second

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		startTime: time.Now(),
	}
}

// WithLocation adds the location state to collected stats
func (c *Collector) WithLocation(src LocationSource) *Collector {
	c.location = src
	return c
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		Timestamp: time.Now(),
		Memory:    c.collectMemoryStats(),
		Runtime:   c.collectRuntimeStats(),
	}

	dbStats, err := c.collectDatabaseStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Database = *dbStats

	stats.Location = c.Location()
	return stats, nil
}

// Location reports the current location state, or nil when no source is set
func (c *Collector) Location() *LocationStats {
	if c.location == nil {
		return nil
	}
	return locationStats(c.location.State())
}

func locationStats(st model.LocationState) *LocationStats {
	ls := &LocationStats{Status: st.Status()}
	if lat, lon, ok := model.Position(st); ok {
		ls.Lat, ls.Lon = &lat, &lon
	}
	switch v := st.(type) {
	case model.City:
		ls.Name = v.Name
	case model.Error:
		ls.Error = v.Message
	}
	return ls
}

func (c *Collector) collectMemoryStats() MemoryStats {
	c.cacheMutex.RLock()
	if c.cachedMem != nil && time.Since(c.cacheTime) < memStatsCacheDuration {
		mem := *c.cachedMem
		c.cacheMutex.RUnlock()
		return mem
	}
	c.cacheMutex.RUnlock()

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mem := MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
	}
	c.cachedMem = &mem
	c.cacheTime = time.Now()
	return mem
}

func (c *Collector) collectDatabaseStats(ctx context.Context) (*DatabaseStats, error) {
	stats := &DatabaseStats{Type: string(c.config.Type)}
	if c.db == nil {
		return stats, nil
	}

	if size, err := c.databaseSize(ctx); err == nil {
		stats.SizeBytes = size
	}

	for _, table := range tables {
		stat, err := c.tableStat(ctx, table)
		if err != nil {
			continue
		}
		stats.TableStats = append(stats.TableStats, *stat)
		stats.TotalRecords += stat.RowCount
		if table == "cities" && stat.RowCount > 0 {
			stats.GazetteerLoaded = true
		}
	}
	return stats, nil
}

func (c *Collector) databaseSize(ctx context.Context) (int64, error) {
	q := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	if c.config.Type == config.DBTypePostgreSQL {
		q = "SELECT pg_database_size(current_database())"
	}
	var size int64
	err := c.db.GetContext(ctx, &size, q)
	return size, err
}

func (c *Collector) tableStat(ctx context.Context, table string) (*TableStat, error) {
	stat := &TableStat{Name: table}
	if err := c.db.GetContext(ctx, &stat.RowCount, "SELECT COUNT(*) FROM "+table); err != nil {
		return nil, err
	}

	var size int64
	if c.config.Type == config.DBTypePostgreSQL {
		_ = c.db.GetContext(ctx, &size, `SELECT COALESCE(pg_total_relation_size($1::regclass), 0)`, table)
	} else {
		// dbstat is only present when SQLite is built with SQLITE_ENABLE_DBSTAT_VTAB
		_ = c.db.GetContext(ctx, &size, `SELECT COALESCE(SUM(pgsize), 0) FROM dbstat WHERE name = ?`, table)
	}
	stat.SizeBytes = size
	return stat, nil
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	return RuntimeStats{
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		UptimeSeconds: int64(time.Since(c.startTime).Seconds()),
	}
}
