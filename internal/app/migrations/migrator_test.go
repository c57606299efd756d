package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to the database named by TEST_DATABASE_URL and scopes the
// connection to a throwaway schema so tests cannot touch real tables. Skipped
// when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run database integration tests")
	}

	schema := fmt.Sprintf("migrations_test_%d", time.Now().UnixNano())

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	require.NoError(t, err)

	_, err = pool.Exec(context.Background(), "CREATE SCHEMA "+schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		pool.Close()
	})
	return pool
}

func migrationsDir() string {
	return filepath.Join("..", "..", "..", "migrations")
}

func TestRebuildCopySQLCarriesTeacherIDWhenPresent(t *testing.T) {
	withAttribution := rebuildCopySQL(true)
	assert.Contains(t, withAttribution, "teacher_id",
		"an attributed source table must copy its attribution across")

	legacy := rebuildCopySQL(false)
	assert.NotContains(t, legacy, "teacher_id",
		"a legacy source table has no attribution column to copy")
	assert.Contains(t, legacy, "FROM achievements_backup")
}

func TestEnsureTeacherColumnIsAdditiveAndIdempotent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	// A store created before teacher attribution existed.
	_, err := pool.Exec(ctx, `
		CREATE TABLE achievements (
			id BIGSERIAL PRIMARY KEY,
			student_id TEXT NOT NULL,
			event_name TEXT NOT NULL
		)`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx,
		`INSERT INTO achievements (student_id, event_name) VALUES ('S1001', 'Tech Fest')`)
	require.NoError(t, err)

	m := NewMigrator(pool)
	require.NoError(t, m.EnsureTeacherColumn(ctx))

	var teacherID string
	err = pool.QueryRow(ctx, `SELECT teacher_id FROM achievements WHERE student_id = 'S1001'`).
		Scan(&teacherID)
	require.NoError(t, err)
	assert.Equal(t, "unknown", teacherID, "pre-existing rows get the placeholder, not an error")

	// A second invocation is a no-op and loses nothing.
	require.NoError(t, m.EnsureTeacherColumn(ctx))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM achievements`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestMigrateFromDirectoryAppliesOnce(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	m := NewMigrator(pool)
	require.NoError(t, m.MigrateFromDirectory(ctx, migrationsDir()))
	require.NoError(t, m.MigrateFromDirectory(ctx, migrationsDir()), "re-running must skip applied versions")

	var applied int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestRebuildAchievementsPreservesAttribution(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	m := NewMigrator(pool)
	require.NoError(t, m.MigrateFromDirectory(ctx, migrationsDir()))

	_, err := pool.Exec(ctx, `
		INSERT INTO students (student_id, student_name, email, password_hash)
		VALUES ('S1001', 'Ada Lovelace', 'ada@example.edu', 'x')`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO achievements (student_id, teacher_id, achievement_type, event_name,
			achievement_date, organizer, position)
		VALUES ('S1001', 'T2001', 'symposium', 'Tech Fest', '2024-03-15', 'IEEE', 'Winner')`)
	require.NoError(t, err)

	require.NoError(t, m.RebuildAchievements(ctx))

	var teacherID, eventName string
	err = pool.QueryRow(ctx,
		`SELECT teacher_id, event_name FROM achievements WHERE student_id = 'S1001'`).
		Scan(&teacherID, &eventName)
	require.NoError(t, err)
	assert.Equal(t, "T2001", teacherID, "rebuild must not reset attribution to the default")
	assert.Equal(t, "Tech Fest", eventName)

	// The backup table is gone.
	var backupExists bool
	err = pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = 'achievements_backup'
		)`).Scan(&backupExists)
	require.NoError(t, err)
	assert.False(t, backupExists)
}

func TestRebuildAchievementsUpgradesLegacyTable(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	m := NewMigrator(pool)
	require.NoError(t, m.MigrateFromDirectory(ctx, migrationsDir()))

	_, err := pool.Exec(ctx, `
		INSERT INTO students (student_id, student_name, email, password_hash)
		VALUES ('S1001', 'Ada Lovelace', 'ada@example.edu', 'x')`)
	require.NoError(t, err)

	// Recreate the pre-attribution shape: drop the column, leaving a row behind.
	_, err = pool.Exec(ctx, `ALTER TABLE achievements DROP COLUMN teacher_id`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO achievements (student_id, achievement_type, event_name,
			achievement_date, organizer, position)
		VALUES ('S1001', 'symposium', 'Tech Fest', '2024-03-15', 'IEEE', 'Winner')`)
	require.NoError(t, err)

	require.NoError(t, m.RebuildAchievements(ctx))

	var teacherID string
	err = pool.QueryRow(ctx,
		`SELECT teacher_id FROM achievements WHERE student_id = 'S1001'`).Scan(&teacherID)
	require.NoError(t, err)
	assert.Equal(t, "unknown", teacherID, "legacy rows pick up the placeholder on rebuild")
}
