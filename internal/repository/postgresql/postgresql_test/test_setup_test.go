package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a migrated connection to the test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies migrations. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, postgresql.Migrate(ctx, db))

	s := &TestDatabaseSetup{DB: db}
	require.NoError(t, s.TruncateAllTables(ctx))
	t.Cleanup(s.Close)
	return s
}

// TruncateAllTables removes every row from the engine tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"request_approvals",
		"requests",
		"anomalies",
		"punches",
		"geo_fences",
		"user_managers",
		"user_roles",
		"users",
		"work_schedules",
		"organizations",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

func (t *TestDatabaseSetup) createOrganization(tb testing.TB, offset *int) string {
	tb.Helper()
	var id string
	err := t.DB.QueryRow(context.Background(),
		`INSERT INTO organizations (name, utc_offset_minutes) VALUES ('Acme', $1) RETURNING id`, offset,
	).Scan(&id)
	require.NoError(tb, err)
	return id
}

func (t *TestDatabaseSetup) createUser(tb testing.TB, orgID, name, status string, roles ...string) string {
	tb.Helper()
	ctx := context.Background()
	var id string
	err := t.DB.QueryRow(ctx,
		`INSERT INTO users (org_id, full_name, status) VALUES ($1, $2, $3) RETURNING id`, orgID, name, status,
	).Scan(&id)
	require.NoError(tb, err)
	for _, role := range roles {
		_, err := t.DB.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, id, role)
		require.NoError(tb, err)
	}
	return id
}
