package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/quakewatch/quakewatch/internal/domain"
	"github.com/quakewatch/quakewatch/internal/logger"
	"github.com/quakewatch/quakewatch/internal/types"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")

	var dsn string
	var err error

	if dbHost != "" {
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost,
			envOr("TEST_DB_PORT", "5432"),
			envOr("TEST_DB_USER", "postgres"),
			envOr("TEST_DB_PASSWORD", "postgres"),
			envOr("TEST_DB_NAME", "test_db"),
		)
		fmt.Printf("Using external database: %s\n", dbHost)
	} else {
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			terminateContainer(ctx)
			os.Exit(1)
		}
	}

	testDB, err = Open(ctx, dsn, 30*time.Second, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	if err := Migrate(testDB); err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		terminateContainer(ctx)
		os.Exit(1)
	}

	code := m.Run()

	terminateContainer(ctx)
	os.Exit(code)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func terminateContainer(ctx context.Context) {
	if pgContainer == nil {
		return
	}
	if err := pgContainer.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
	}
}

// initPGTestDB returns a store bound to a transaction that is rolled back after the test
func initPGTestDB(t *testing.T) Store {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

func TestPGStore_Event(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := st.GetEvent(ctx, "E1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	require.NoError(t, st.UpsertEvent(ctx, &domain.Event{
		ID:                "E1",
		PreferredOriginID: "O1",
		Description:       types.StringPtr("Southern Sumatra"),
		CreationTime:      created,
	}))

	evt, err := st.GetEvent(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "O1", evt.PreferredOriginID)
	assert.Equal(t, "", evt.PreferredMagnitudeID)
	assert.Equal(t, "Southern Sumatra", types.SafeString(evt.Description))
	assert.True(t, created.Equal(evt.CreationTime))

	// Upsert replaces the preferred selection
	require.NoError(t, st.UpsertEvent(ctx, &domain.Event{
		ID:                   "E1",
		PreferredOriginID:    "O2",
		PreferredMagnitudeID: "M2",
		CreationTime:         created,
	}))

	evt, err = st.GetEvent(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "O2", evt.PreferredOriginID)
	assert.Equal(t, "M2", evt.PreferredMagnitudeID)
	assert.Nil(t, evt.Description)
}

func TestPGStore_OriginAndMagnitude(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	ot := time.Date(2024, 3, 1, 9, 58, 12, 0, time.UTC)

	require.NoError(t, st.UpsertOrigin(ctx, &domain.Origin{
		ID:           "O1",
		Time:         ot,
		Latitude:     -4.1,
		Longitude:    102.3,
		Depth:        types.Float64Ptr(35),
		ArrivalCount: 87,
		CreationTime: ot.Add(5 * time.Minute),
	}))
	require.NoError(t, st.UpsertMagnitude(ctx, &domain.Magnitude{
		ID:           "M1",
		Value:        6.1,
		Type:         "Mw",
		OriginID:     "O1",
		CreationTime: ot.Add(6 * time.Minute),
	}))

	org, err := st.GetOrigin(ctx, "O1")
	require.NoError(t, err)
	assert.True(t, ot.Equal(org.Time))
	assert.Equal(t, 35.0, types.SafeFloat64(org.Depth, 0))
	assert.Equal(t, 87, org.ArrivalCount)

	mag, err := st.GetMagnitude(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, 6.1, mag.Value)
	assert.Equal(t, "Mw", mag.Type)
	assert.Equal(t, "O1", mag.OriginID)

	_, err = st.GetMagnitude(ctx, "M99")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestPGStore_FocalMechanism(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()

	fm := &domain.FocalMechanism{
		ID:              "F1",
		TriggeringOrgID: "O1",
		NodalPlanes:     []domain.NodalPlane{{Strike: 310, Dip: 12, Rake: 95}, {Strike: 125, Dip: 78, Rake: 89}},
		MomentTensors: []domain.MomentTensor{{
			ID:                "MT1",
			CLVD:              types.Float64Ptr(4.2),
			MomentMagnitudeID: "M-MW",
			DerivedOriginID:   "O-CENTROID",
			StationContributions: []domain.StationContribution{
				{StationID: "GE.UGM", Weight: 1, ComponentWeights: []float64{1, 1, 0.5}},
			},
		}},
		CreationTime: time.Date(2024, 3, 1, 10, 20, 0, 0, time.UTC),
	}
	require.NoError(t, st.UpsertFocalMechanism(ctx, fm))

	got, err := st.GetFocalMechanism(ctx, "F1")
	require.NoError(t, err)
	assert.Equal(t, fm.NodalPlanes, got.NodalPlanes)
	require.Len(t, got.MomentTensors, 1)
	assert.Equal(t, "O-CENTROID", got.MomentTensors[0].DerivedOriginID)
	assert.Equal(t, []float64{1, 1, 0.5}, got.MomentTensors[0].StationContributions[0].ComponentWeights)
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	open, idle, life, idleTime := NormalizeConnectionPoolSettings(0, 0, 0, 0)
	assert.Equal(t, 4, open)
	assert.Equal(t, 2, idle)
	assert.Equal(t, 30*time.Minute, life)
	assert.Equal(t, 10*time.Minute, idleTime)

	open, idle, _, _ = NormalizeConnectionPoolSettings(3, 8, time.Minute, time.Minute)
	assert.Equal(t, 3, open)
	assert.Equal(t, 3, idle)
}
