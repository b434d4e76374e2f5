package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/five82/cadre/internal/program"
)

// Ensure Store implements program.Gateway at compile time.
var _ program.Gateway = (*Store)(nil)

const (
	defaultTable    = "programs"
	defaultAttempts = 5
	maxBackoff      = 10 * time.Second
)

// Row is the stored form of a program.
type Row struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title                 string    `gorm:"size:100;not null"`
	CreatedAt             time.Time `gorm:"not null;index"`
	PrerequisiteProgramID string    `gorm:"size:64"`
	TraineeCount          int       `gorm:"not null;default:0"`
	DurationInWeeks       int       `gorm:"not null;default:2"`
}

// Snapshot converts the row into its gateway representation.
func (r Row) Snapshot() program.Snapshot {
	data := map[string]any{
		program.FieldTitle:           r.Title,
		program.FieldCreatedAt:       r.CreatedAt,
		program.FieldTraineeCount:    r.TraineeCount,
		program.FieldDurationInWeeks: r.DurationInWeeks,
	}
	if r.PrerequisiteProgramID != "" {
		data[program.FieldPrerequisite] = r.PrerequisiteProgramID
	}
	return program.Snapshot{ID: r.ID.String(), Data: data}
}

func rowFromDraft(id uuid.UUID, d program.Draft) Row {
	created := d.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return Row{
		ID:                    id,
		Title:                 d.Title,
		CreatedAt:             created.UTC(),
		PrerequisiteProgramID: d.PrerequisiteProgramID,
		TraineeCount:          d.TraineeCount,
		DurationInWeeks:       d.DurationInWeeks,
	}
}

// Options configures Open.
type Options struct {
	DSN      string
	Table    string
	Attempts int
	Logger   *zap.Logger
}

// Store reads and writes programs in one table.
type Store struct {
	db    *gorm.DB
	table string
}

// Open connects to PostgreSQL, retrying with exponential backoff, and
// migrates the program table.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("database_url is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := connect(ctx, opts.DSN)
		if err == nil {
			log.Debug("database connected", zap.Int("attempt", i))
			return New(ctx, db, opts.Table)
		}
		lastErr = err
		log.Warn("database connect failed", zap.Int("attempt", i), zap.Error(err))
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(i)):
		}
	}
	return nil, fmt.Errorf("connect database after %d attempts: %w", attempts, lastErr)
}

func connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// backoff returns the wait after the given failed attempt: 1s, 2s, 4s, ...
// capped at maxBackoff.
func backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 8 {
		return maxBackoff
	}
	wait := time.Duration(1<<uint(attempt-1)) * time.Second
	return min(wait, maxBackoff)
}

// New wraps an open database and migrates the table.
func New(ctx context.Context, db *gorm.DB, table string) (*Store, error) {
	if table == "" {
		table = defaultTable
	}
	s := &Store{db: db, table: table}
	if err := s.tx(ctx).AutoMigrate(&Row{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", table, err)
	}
	return s, nil
}

func (s *Store) tx(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Table(s.table)
}

// GetAll returns every program, oldest first.
func (s *Store) GetAll(ctx context.Context) ([]program.Snapshot, error) {
	var rows []Row
	if err := s.tx(ctx).Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	snaps := make([]program.Snapshot, 0, len(rows))
	for _, r := range rows {
		snaps = append(snaps, r.Snapshot())
	}
	return snaps, nil
}

// Create validates and inserts draft, returning the new row id.
func (s *Store) Create(ctx context.Context, draft program.Draft) (string, error) {
	if err := program.Validate(draft); err != nil {
		return "", err
	}
	row := rowFromDraft(uuid.New(), draft)
	if err := s.tx(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("insert into %s: %w", s.table, err)
	}
	return row.ID.String(), nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
