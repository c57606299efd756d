package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// Migrator manages database migrations
type Migrator struct {
	db *pgxpool.Pool
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := m.db.Exec(ctx, createTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	err := m.db.QueryRow(ctx, query, version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// recordMigration marks a migration as applied
func (m *Migrator) recordMigration(ctx context.Context, version string) error {
	_, err := m.db.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		version, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return nil
}

// MigrateFromFile executes SQL statements from a file inside a transaction.
// Already-applied versions are skipped, so re-running on startup is safe.
func (m *Migrator) MigrateFromFile(ctx context.Context, filePath string) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	// Extract version from filename (e.g., "001_init.sql" => "001")
	filename := filepath.Base(filePath)
	version := strings.Split(filename, "_")[0]

	migrationApplied, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return err
	}

	if migrationApplied {
		logger.Debug().Str("file", filename).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, string(content))
	if err != nil {
		return fmt.Errorf("error occurred during SQL migration execution: %w", err)
	}

	if err := m.recordMigration(ctx, version); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().Str("file", filename).Msg("Migration applied")
	return nil
}

// MigrateFromDirectory finds and executes all SQL files in a directory
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	files, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".sql") {
			sqlFiles = append(sqlFiles, file.Name())
		}
	}

	// Apply in filename order
	sort.Strings(sqlFiles)

	for _, file := range sqlFiles {
		filePath := filepath.Join(dirPath, file)
		if err := m.MigrateFromFile(ctx, filePath); err != nil {
			return err
		}
	}

	return nil
}

// columnExists reports whether a column is present on a table in the current
// schema.
func (m *Migrator) columnExists(ctx context.Context, table, column string) (bool, error) {
	var exists bool
	err := m.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema()
			  AND table_name = $1 AND column_name = $2
		)`, table, column).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s columns: %w", table, err)
	}
	return exists, nil
}

// EnsureTeacherColumn additively introduces achievements.teacher_id on stores
// created before teacher attribution existed. It inspects the live column set
// and only issues the ALTER when the column is missing, so it is safe to call
// on every startup. Rows that predate the column keep the 'unknown'
// placeholder instead of failing.
func (m *Migrator) EnsureTeacherColumn(ctx context.Context) error {
	exists, err := m.columnExists(ctx, "achievements", "teacher_id")
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = m.db.Exec(ctx,
		`ALTER TABLE achievements ADD COLUMN teacher_id TEXT NOT NULL DEFAULT 'unknown'`)
	if err != nil {
		return fmt.Errorf("failed to add teacher_id column: %w", err)
	}

	logger.Info().Msg("Added teacher_id column to achievements")
	return nil
}

// RebuildAchievements is the heavier evolution strategy: rename the table to a
// backup, create it fresh with the full column set, copy every row across and
// drop the backup. It exists as an alternative to EnsureTeacherColumn for
// changes an ALTER cannot express; the running system only uses the additive
// path.
//
// teacher_id is carried across only when the source table has it; otherwise
// the new column's 'unknown' default applies. The presence check must happen
// before the rename so an already-attributed table can never lose its
// attribution to the default.
func (m *Migrator) RebuildAchievements(ctx context.Context) error {
	hasTeacherID, err := m.columnExists(ctx, "achievements", "teacher_id")
	if err != nil {
		return err
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `ALTER TABLE achievements RENAME TO achievements_backup`); err != nil {
		return fmt.Errorf("failed to rename achievements table: %w", err)
	}

	if _, err := tx.Exec(ctx, createAchievementsSQL); err != nil {
		return fmt.Errorf("failed to create achievements table: %w", err)
	}

	if _, err := tx.Exec(ctx, rebuildCopySQL(hasTeacherID)); err != nil {
		return fmt.Errorf("failed to backfill achievements: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('achievements', 'id'),
			COALESCE((SELECT MAX(id) FROM achievements), 1))`); err != nil {
		return fmt.Errorf("failed to advance achievements sequence: %w", err)
	}

	if _, err := tx.Exec(ctx, `DROP TABLE achievements_backup`); err != nil {
		return fmt.Errorf("failed to drop backup table: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rebuild: %w", err)
	}

	logger.Info().Msg("Rebuilt achievements table")
	return nil
}

// rebuildCopySQL builds the backfill statement for RebuildAchievements.
func rebuildCopySQL(withTeacherID bool) string {
	columns := []string{
		"id", "student_id", "achievement_type", "event_name",
		"achievement_date", "organizer", "position", "achievement_description",
		"certificate_path", "symposium_theme", "programming_language", "coding_platform",
		"paper_title", "journal_name", "conference_level", "conference_role",
		"team_size", "project_title", "database_type", "difficulty_level",
		"other_description", "created_at",
	}
	if withTeacherID {
		columns = append(columns, "teacher_id")
	}

	list := strings.Join(columns, ", ")
	return fmt.Sprintf("INSERT INTO achievements (%s) SELECT %s FROM achievements_backup", list, list)
}

const createAchievementsSQL = `
CREATE TABLE achievements (
	id                      BIGSERIAL PRIMARY KEY,
	student_id              TEXT NOT NULL REFERENCES students(student_id),
	teacher_id              TEXT NOT NULL DEFAULT 'unknown',
	achievement_type        TEXT NOT NULL,
	event_name              TEXT NOT NULL,
	achievement_date        DATE NOT NULL,
	organizer               TEXT NOT NULL,
	position                TEXT NOT NULL,
	achievement_description TEXT,
	certificate_path        TEXT,
	symposium_theme         TEXT,
	programming_language    TEXT,
	coding_platform         TEXT,
	paper_title             TEXT,
	journal_name            TEXT,
	conference_level        TEXT,
	conference_role         TEXT,
	team_size               INTEGER,
	project_title           TEXT,
	database_type           TEXT,
	difficulty_level        TEXT,
	other_description       TEXT,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
)`
