package persistence

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"

	_ "modernc.org/sqlite"
)

// setupSQLiteTestDB creates an in-memory SQLite database with the schema applied.
func setupSQLiteTestDB(t *testing.T) *sql.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	schemaPath := filepath.Join("..", "..", "..", "..", "migrations", "sqlite", "000001_initial_schema.up.sql")
	schema, err := os.ReadFile(schemaPath)
	require.NoError(t, err, "Failed to read SQLite schema file")

	_, err = sqlDB.Exec(string(schema))
	require.NoError(t, err, "Failed to apply SQLite schema")

	return sqlDB
}

func newTestSubscription(t *testing.T, now time.Time) *domain.Subscription {
	t.Helper()

	sub, err := domain.NewSubscription(uuid.New(), catalog.DefaultCatalog(), catalog.PropertyCondominium, domain.CycleMonthly, now)
	require.NoError(t, err)
	sub.ClearDomainEvents()
	return sub
}

func TestSQLiteSubscriptionRepository_Save_Create(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteSubscriptionRepository(sqlDB)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	sub := newTestSubscription(t, now)
	require.NoError(t, repo.Save(ctx, sub))

	found, err := repo.FindByID(ctx, sub.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sub.ID(), found.ID())
	assert.Equal(t, sub.CustomerID(), found.CustomerID())
	assert.Equal(t, catalog.PropertyCondominium, found.PropertyType())
	assert.Equal(t, domain.CycleMonthly, found.BillingCycle())
	assert.Equal(t, domain.StatusActive, found.Status())
	assert.True(t, found.Period().Start().Equal(sub.Period().Start()))
	assert.True(t, found.Period().End().Equal(sub.Period().End()))
	require.NotNil(t, found.NextBillingDate())
	assert.True(t, found.NextBillingDate().Equal(sub.Period().End()))
	assert.True(t, found.AutoRenew())
	assert.Nil(t, found.PendingPropertyType())
}

func TestSQLiteSubscriptionRepository_Save_Update(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteSubscriptionRepository(sqlDB)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	sub := newTestSubscription(t, now)
	require.NoError(t, repo.Save(ctx, sub))

	// Defer a plan change and persist it.
	_, err := sub.ChangePlan(catalog.DefaultCatalog(), catalog.PropertyLanded, domain.EffectiveNextCycle, now.AddDate(0, 0, 10))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sub))

	found, err := repo.FindByID(ctx, sub.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, catalog.PropertyCondominium, found.PropertyType())
	require.NotNil(t, found.PendingPropertyType())
	assert.Equal(t, catalog.PropertyLanded, *found.PendingPropertyType())
	assert.Equal(t, sub.Version(), found.Version())
}

func TestSQLiteSubscriptionRepository_FindByID_NotFound(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteSubscriptionRepository(sqlDB)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestSQLiteSubscriptionRepository_FindByCustomerID(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteSubscriptionRepository(sqlDB)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	sub := newTestSubscription(t, now)
	require.NoError(t, repo.Save(ctx, sub))

	found, err := repo.FindByCustomerID(ctx, sub.CustomerID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sub.ID(), found.ID())

	missing, err := repo.FindByCustomerID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteSubscriptionRepository_FindDueForRenewal(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteSubscriptionRepository(sqlDB)
	ctx := context.Background()

	due := newTestSubscription(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	notDue := newTestSubscription(t, time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, due))
	require.NoError(t, repo.Save(ctx, notDue))

	found, err := repo.FindDueForRenewal(ctx, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 100)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID(), found[0].ID())
}

func TestSQLiteSubscriptionRepository_FindDueForRenewal_CancelledExcluded(t *testing.T) {
	sqlDB := setupSQLiteTestDB(t)
	defer sqlDB.Close()

	repo := NewSQLiteSubscriptionRepository(sqlDB)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	sub := newTestSubscription(t, now)
	_, err := sub.Cancel(catalog.DefaultCatalog(), domain.CancelImmediate, now.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sub))

	found, err := repo.FindDueForRenewal(ctx, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), 100)
	require.NoError(t, err)
	assert.Empty(t, found)
}
