package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/store/schema"
	"github.com/quakewatch/quakewatch/internal/types"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Open connects to PostgreSQL, retrying with exponential backoff until maxElapsed has passed.
// The source database is often restarted together with the messaging system, so a short
// outage at startup should not abort the client.
func Open(ctx context.Context, dsn string, maxElapsed time.Duration, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}

	var db *gorm.DB
	operation := func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to get underlying sql.DB: %w", err))
		}
		return sqlDB.PingContext(ctx)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = maxElapsed

	notify := func(err error, wait time.Duration) {
		logger.WarnCtx(ctx, "Database not reachable, retrying",
			zap.Error(err),
			zap.Duration("retry_in", wait),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the tables the store reads from
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&schema.Event{},
		&schema.Origin{},
		&schema.Magnitude{},
		&schema.FocalMechanism{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// If any of the pool settings are 0, the defaults of NormalizeConnectionPoolSettings are used.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 4
//   - MaxIdleConns: 2
//   - ConnMaxLifetime: 30 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// The tracker issues one query at a time, so the pool stays small.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 4
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 2
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 30 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// first loads a single row by public ID, mapping gorm.ErrRecordNotFound to domain.ErrRecordNotFound
func first[T any](ctx context.Context, db *gorm.DB, kind domain.Kind, publicID string) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("public_id = ?", publicID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %s: %w", kind, publicID, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, publicID, err)
	}
	return &row, nil
}

// GetEvent retrieves an event by its public ID
func (s *pgStore) GetEvent(ctx context.Context, publicID string) (*domain.Event, error) {
	row, err := first[schema.Event](ctx, s.db, domain.KindEvent, publicID)
	if err != nil {
		return nil, err
	}
	return types.EventFromSchema(row), nil
}

// GetOrigin retrieves an origin by its public ID
func (s *pgStore) GetOrigin(ctx context.Context, publicID string) (*domain.Origin, error) {
	row, err := first[schema.Origin](ctx, s.db, domain.KindOrigin, publicID)
	if err != nil {
		return nil, err
	}
	return types.OriginFromSchema(row), nil
}

// GetMagnitude retrieves a magnitude by its public ID
func (s *pgStore) GetMagnitude(ctx context.Context, publicID string) (*domain.Magnitude, error) {
	row, err := first[schema.Magnitude](ctx, s.db, domain.KindMagnitude, publicID)
	if err != nil {
		return nil, err
	}
	return types.MagnitudeFromSchema(row), nil
}

// GetFocalMechanism retrieves a focal mechanism by its public ID
func (s *pgStore) GetFocalMechanism(ctx context.Context, publicID string) (*domain.FocalMechanism, error) {
	row, err := first[schema.FocalMechanism](ctx, s.db, domain.KindFocalMechanism, publicID)
	if err != nil {
		return nil, err
	}
	return types.FocalMechanismFromSchema(row)
}

// upsertOnPublicID replaces every column except the primary key when the public ID already exists
func (s *pgStore) upsertOnPublicID(ctx context.Context, row any, columns []string) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "public_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(row).Error
}

// UpsertEvent inserts or replaces an event row
func (s *pgStore) UpsertEvent(ctx context.Context, event *domain.Event) error {
	row := schema.Event{
		PublicID:                  event.ID,
		PreferredOriginID:         event.PreferredOriginID,
		PreferredMagnitudeID:      event.PreferredMagnitudeID,
		PreferredFocalMechanismID: event.PreferredFocalMechanismID,
		Type:                      event.Type,
		Description:               event.Description,
		CreationTime:              event.CreationTime,
	}
	err := s.upsertOnPublicID(ctx, &row, []string{
		"preferred_origin_id", "preferred_magnitude_id", "preferred_focal_mechanism_id",
		"type", "description", "creation_time",
	})
	if err != nil {
		return fmt.Errorf("failed to upsert event %s: %w", event.ID, err)
	}
	return nil
}

// UpsertOrigin inserts or replaces an origin row
func (s *pgStore) UpsertOrigin(ctx context.Context, origin *domain.Origin) error {
	row := schema.Origin{
		PublicID:     origin.ID,
		Time:         origin.Time,
		Latitude:     origin.Latitude,
		Longitude:    origin.Longitude,
		Depth:        origin.Depth,
		ArrivalCount: origin.ArrivalCount,
		CreationTime: origin.CreationTime,
	}
	err := s.upsertOnPublicID(ctx, &row, []string{
		"time", "latitude", "longitude", "depth", "arrival_count", "creation_time",
	})
	if err != nil {
		return fmt.Errorf("failed to upsert origin %s: %w", origin.ID, err)
	}
	return nil
}

// UpsertMagnitude inserts or replaces a magnitude row
func (s *pgStore) UpsertMagnitude(ctx context.Context, magnitude *domain.Magnitude) error {
	row := schema.Magnitude{
		PublicID:     magnitude.ID,
		Value:        magnitude.Value,
		Type:         magnitude.Type,
		OriginID:     magnitude.OriginID,
		CreationTime: magnitude.CreationTime,
	}
	err := s.upsertOnPublicID(ctx, &row, []string{"value", "type", "origin_id", "creation_time"})
	if err != nil {
		return fmt.Errorf("failed to upsert magnitude %s: %w", magnitude.ID, err)
	}
	return nil
}

// UpsertFocalMechanism inserts or replaces a focal mechanism row
func (s *pgStore) UpsertFocalMechanism(ctx context.Context, fm *domain.FocalMechanism) error {
	row, err := types.FocalMechanismToSchema(fm)
	if err != nil {
		return err
	}
	err = s.upsertOnPublicID(ctx, row, []string{
		"triggering_origin_id", "azimuthal_gap", "nodal_planes", "moment_tensors", "creation_time",
	})
	if err != nil {
		return fmt.Errorf("failed to upsert focal mechanism %s: %w", fm.ID, err)
	}
	return nil
}
