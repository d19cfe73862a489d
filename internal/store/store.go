// Package store persists headless run summaries to a local SQLite file.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("run not found")

// RunRecord is one headless run.
type RunRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	CreatedAt time.Time
	Scenario  string `gorm:"index"`
	Seed      int64
	Ticks     int

	ShotsFired int
	Rays       int // one per hitscan shot, one per pellet
	Hits       int
	Kills      int
	Reloads    int
	Switches   int
	Footsteps  int

	ZombiesTotal  int
	ZombiesAlive  int
	PlayerHealth  float64
	PlayerAlive   bool
	LevelComplete bool

	FirstChaseTick  int
	FirstAttackTick int
	FirstKillTick   int
	StateChanges    int
}

// Accuracy returns hits per ray fired, or 0 when nothing was fired.
func (r RunRecord) Accuracy() float64 {
	if r.Rays <= 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Rays)
}

// Store wraps the gorm handle.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the SQLite database at path and migrates the schema. An
// empty path opens a private in-memory database.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open run store: %w", err)
	}
	// In-memory databases are per connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("migrate run store: %w", err)
	}
	if path != "" {
		log.Info().Str("path", path).Msg("Using local SQLite run store")
	}
	return &Store{db: db, log: log}, nil
}

// Save inserts r, assigning an ID when it has none.
func (s *Store) Save(ctx context.Context, r *RunRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("save run %s: %w", r.ID, err)
	}
	s.log.Debug().Str("id", r.ID).Str("scenario", r.Scenario).Int64("seed", r.Seed).Msg("run saved")
	return nil
}

// Get loads one run by ID.
func (s *Store) Get(ctx context.Context, id string) (RunRecord, error) {
	var r RunRecord
	err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return r, nil
}

// List returns the most recent runs, newest first. An empty scenario
// matches all; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, scenario string, limit int) ([]RunRecord, error) {
	q := s.db.WithContext(ctx).Order("created_at desc")
	if scenario != "" {
		q = q.Where("scenario = ?", scenario)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []RunRecord
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
