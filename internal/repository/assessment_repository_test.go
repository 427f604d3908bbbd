package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/triprisk-backend-go/internal/database"
	"github.com/jengzang/triprisk-backend-go/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: database.MemoryPath})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrationManager(db).RunMigrations(context.Background()))
	return db
}

func sampleAssessment(id string, label models.RiskLabel, created time.Time) *models.Assessment {
	return &models.Assessment{
		ID:         id,
		CreatedAt:  created,
		PointCount: 20,
		RiskScore:  0.512,
		RawScore:   -1.536,
		Label:      label,
		Alerts:     []models.Alert{models.NewLongStop(30, 40)},
		Features: models.FeatureVector{
			TotalDistance:   1234.5,
			MaxStopDuration: 2400,
			StopCount:       1,
			StartHour:       9,
			EndHour:         10,
		},
	}
}

func TestAssessmentRepository_CreateAndGet(t *testing.T) {
	repo := NewAssessmentRepository(newTestDB(t))
	ctx := context.Background()

	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	want := sampleAssessment("a-1", models.RiskMedium, created)
	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.GetByID(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAssessmentRepository_GetMissing(t *testing.T) {
	repo := NewAssessmentRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAssessmentRepository_CreateDuplicate(t *testing.T) {
	repo := NewAssessmentRepository(newTestDB(t))
	ctx := context.Background()

	a := sampleAssessment("dup", models.RiskLow, time.Now().UTC())
	require.NoError(t, repo.Create(ctx, a))
	assert.Error(t, repo.Create(ctx, a))
}

func TestAssessmentRepository_NoAlertsRoundTrip(t *testing.T) {
	repo := NewAssessmentRepository(newTestDB(t))
	ctx := context.Background()

	a := sampleAssessment("quiet", models.RiskLow, time.Now().UTC().Truncate(time.Millisecond))
	a.Alerts = nil
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, "quiet")
	require.NoError(t, err)
	assert.NotNil(t, got.Alerts)
	assert.Empty(t, got.Alerts)
}

func TestAssessmentRepository_List(t *testing.T) {
	repo := NewAssessmentRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	labels := []models.RiskLabel{models.RiskLow, models.RiskHigh, models.RiskLow, models.RiskMedium, models.RiskLow}
	for i, label := range labels {
		a := sampleAssessment(fmt.Sprintf("a-%d", i), label, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Create(ctx, a))
	}

	all, total, err := repo.List(ctx, models.AssessmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, all, 5)
	assert.Equal(t, "a-4", all[0].ID, "newest first")

	lows, total, err := repo.List(ctx, models.AssessmentFilter{Label: models.RiskLow, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, lows, 1)
	assert.Equal(t, "a-0", lows[0].ID)

	none, total, err := repo.List(ctx, models.AssessmentFilter{Label: models.RiskHigh, Page: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
