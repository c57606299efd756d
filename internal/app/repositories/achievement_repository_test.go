package repositories

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

	"github.com/meritbook/meritbook/internal/app/migrations"
	"github.com/meritbook/meritbook/internal/app/models"
)

// testPool connects to TEST_DATABASE_URL, scoped to a throwaway schema with
// the full migrated schema applied. Skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run database integration tests")
	}

	schema := fmt.Sprintf("repositories_test_%d", time.Now().UnixNano())

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

	dir := filepath.Join("..", "..", "..", "migrations")
	require.NoError(t, migrations.NewMigrator(pool).MigrateFromDirectory(context.Background(), dir))
	return pool
}

func createStudent(t *testing.T, repo *StudentRepository, id, name, email string) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &models.Student{
		StudentID:    id,
		StudentName:  name,
		Email:        email,
		PasswordHash: "x",
	}))
}

func achievementFor(studentID, teacherID string, date time.Time) *models.Achievement {
	return &models.Achievement{
		StudentID:       studentID,
		TeacherID:       teacherID,
		AchievementType: models.TypeSymposium,
		EventName:       "Tech Fest",
		AchievementDate: date,
		Organizer:       "IEEE",
		Position:        "Winner",
	}
}

func TestStatsByTeacherAggregation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	students := NewStudentRepository(pool)
	createStudent(t, students, "S1001", "Ada Lovelace", "ada@example.edu")
	createStudent(t, students, "S1002", "Alan Turing", "alan@example.edu")

	repo := NewAchievementRepository(pool)
	old := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)

	// Three records for one student, two for another, exactly one recent.
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Insert(ctx, achievementFor("S1001", "T2001", old)))
	}
	require.NoError(t, repo.Insert(ctx, achievementFor("S1001", "T2001", time.Now())))
	for i := 0; i < 2; i++ {
		require.NoError(t, repo.Insert(ctx, achievementFor("S1002", "T2001", old)))
	}

	// Another teacher's row must not leak into the counts.
	require.NoError(t, repo.Insert(ctx, achievementFor("S1001", "T9999", time.Now())))

	stats, err := repo.StatsByTeacher(ctx, "T2001")
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.TotalAchievements)
	assert.Equal(t, int64(2), stats.StudentsManaged)
	assert.Equal(t, int64(1), stats.ThisWeek)

	// A teacher with no rows gets zeroes, not an error.
	empty, err := repo.StatsByTeacher(ctx, "T0000")
	require.NoError(t, err)
	assert.Zero(t, empty.TotalAchievements)
	assert.Zero(t, empty.StudentsManaged)
	assert.Zero(t, empty.ThisWeek)
}

func TestInsertThenListRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	students := NewStudentRepository(pool)
	createStudent(t, students, "S1001", "Ada Lovelace", "ada@example.edu")

	repo := NewAchievementRepository(pool)

	theme := "AI in Healthcare"
	teamSize := 3
	submitted := achievementFor("S1001", "T2001", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	submitted.SymposiumTheme = &theme
	submitted.TeamSize = &teamSize
	require.NoError(t, repo.Insert(ctx, submitted))
	assert.NotZero(t, submitted.ID)
	assert.False(t, submitted.CreatedAt.IsZero())

	// A second record with the optional fields absent.
	require.NoError(t, repo.Insert(ctx,
		achievementFor("S1001", "T2001", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))))

	rows, err := repo.AllByTeacher(ctx, "T2001")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Achievement date descending; the sparse record is newer.
	sparse, full := rows[0], rows[1]
	assert.Nil(t, sparse.TeamSize, "absent team size must stay absent, not zero")
	assert.Nil(t, sparse.SymposiumTheme)

	assert.Equal(t, submitted.ID, full.ID)
	assert.Equal(t, "Ada Lovelace", full.StudentName)
	require.NotNil(t, full.SymposiumTheme)
	assert.Equal(t, theme, *full.SymposiumTheme)
	require.NotNil(t, full.TeamSize)
	assert.Equal(t, teamSize, *full.TeamSize)
}

func TestRecentByTeacherOrdersByCreation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	students := NewStudentRepository(pool)
	createStudent(t, students, "S1001", "Ada Lovelace", "ada@example.edu")

	repo := NewAchievementRepository(pool)
	for i := 0; i < 3; i++ {
		a := achievementFor("S1001", "T2001", time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC))
		a.EventName = fmt.Sprintf("Event %d", i)
		require.NoError(t, repo.Insert(ctx, a))
	}

	recent, err := repo.RecentByTeacher(ctx, "T2001", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Event 2", recent[0].EventName, "newest creation first")
	assert.Equal(t, "Event 1", recent[1].EventName)
}
