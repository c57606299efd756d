package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// AchievementRepository handles achievement record database operations.
// Records are insert-only; there are no update or delete paths.
type AchievementRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Helper to get nullable string from pointer
func getNullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Helper to get nullable int from pointer. A nil team size stays NULL in the
// row rather than collapsing to zero.
func getNullIntPtr(i *int) sql.NullInt32 {
	if i == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*i), Valid: true}
}

// Insert persists one achievement record and fills in the generated ID and
// server-assigned creation timestamp.
func (r *AchievementRepository) Insert(ctx context.Context, a *models.Achievement) error {
	sql, args, err := r.sb.Insert("achievements").
		Columns(
			"student_id", "teacher_id", "achievement_type", "event_name",
			"achievement_date", "organizer", "position", "achievement_description",
			"certificate_path", "symposium_theme", "programming_language",
			"coding_platform", "paper_title", "journal_name", "conference_level",
			"conference_role", "team_size", "project_title", "database_type",
			"difficulty_level", "other_description").
		Values(
			a.StudentID, a.TeacherID, a.AchievementType, a.EventName,
			a.AchievementDate, a.Organizer, a.Position, getNullStringPtr(a.Description),
			getNullStringPtr(a.CertificatePath), getNullStringPtr(a.SymposiumTheme),
			getNullStringPtr(a.ProgrammingLanguage), getNullStringPtr(a.CodingPlatform),
			getNullStringPtr(a.PaperTitle), getNullStringPtr(a.JournalName),
			getNullStringPtr(a.ConferenceLevel), getNullStringPtr(a.ConferenceRole),
			getNullIntPtr(a.TeamSize), getNullStringPtr(a.ProjectTitle),
			getNullStringPtr(a.DatabaseType), getNullStringPtr(a.DifficultyLevel),
			getNullStringPtr(a.OtherDescription)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert achievement query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Str("studentID", a.StudentID).Str("teacherID", a.TeacherID).
			Msg("Error inserting achievement")
		return fmt.Errorf("error inserting achievement: %w", err)
	}

	logger.Info().Int64("id", a.ID).Str("studentID", a.StudentID).
		Str("teacherID", a.TeacherID).Msg("Achievement recorded")
	return nil
}

// StatsByTeacher computes the dashboard aggregates for one teacher's
// submissions. A teacher with no rows gets zeroes, never an error.
func (r *AchievementRepository) StatsByTeacher(ctx context.Context, teacherID string) (*models.TeacherStats, error) {
	var stats models.TeacherStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT student_id),
		       COUNT(*) FILTER (WHERE achievement_date >= CURRENT_DATE - INTERVAL '7 days')
		FROM achievements
		WHERE teacher_id = $1`, teacherID).
		Scan(&stats.TotalAchievements, &stats.StudentsManaged, &stats.ThisWeek)
	if err != nil {
		logger.Error().Err(err).Str("teacherID", teacherID).Msg("Error computing teacher stats")
		return nil, fmt.Errorf("error computing teacher stats: %w", err)
	}
	return &stats, nil
}

// RecentByTeacher returns the teacher's newest entries by creation time,
// joined with the student display name.
func (r *AchievementRepository) RecentByTeacher(ctx context.Context, teacherID string, limit int) ([]models.Achievement, error) {
	sql, args, err := r.listQuery().
		Where(squirrel.Eq{"a.teacher_id": teacherID}).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build recent achievements query: %w", err)
	}
	return r.queryAchievements(ctx, sql, args)
}

// AllByTeacher returns every achievement recorded by the teacher, newest
// achievement date first.
func (r *AchievementRepository) AllByTeacher(ctx context.Context, teacherID string) ([]models.Achievement, error) {
	sql, args, err := r.listQuery().
		Where(squirrel.Eq{"a.teacher_id": teacherID}).
		OrderBy("a.achievement_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build all achievements query: %w", err)
	}
	return r.queryAchievements(ctx, sql, args)
}

// AllByStudent returns a student's own achievement history, newest first.
func (r *AchievementRepository) AllByStudent(ctx context.Context, studentID string) ([]models.Achievement, error) {
	sql, args, err := r.listQuery().
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.achievement_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student achievements query: %w", err)
	}
	return r.queryAchievements(ctx, sql, args)
}

func (r *AchievementRepository) listQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.student_id", "a.teacher_id", "a.achievement_type",
		"a.event_name", "a.achievement_date", "a.organizer", "a.position",
		"a.achievement_description", "a.certificate_path", "a.symposium_theme",
		"a.programming_language", "a.coding_platform", "a.paper_title",
		"a.journal_name", "a.conference_level", "a.conference_role",
		"a.team_size", "a.project_title", "a.database_type",
		"a.difficulty_level", "a.other_description", "a.created_at",
		"s.student_name").
		From("achievements a").
		Join("students s ON a.student_id = s.student_id")
}

func (r *AchievementRepository) queryAchievements(ctx context.Context, sql string, args []interface{}) ([]models.Achievement, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying achievements")
		return nil, fmt.Errorf("error querying achievements: %w", err)
	}
	defer rows.Close()

	achievements := make([]models.Achievement, 0)
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return achievements, nil
}

func scanAchievement(rows pgx.Rows) (models.Achievement, error) {
	var (
		a        models.Achievement
		teamSize sql.NullInt32
	)
	err := rows.Scan(
		&a.ID, &a.StudentID, &a.TeacherID, &a.AchievementType,
		&a.EventName, &a.AchievementDate, &a.Organizer, &a.Position,
		&a.Description, &a.CertificatePath, &a.SymposiumTheme,
		&a.ProgrammingLanguage, &a.CodingPlatform, &a.PaperTitle,
		&a.JournalName, &a.ConferenceLevel, &a.ConferenceRole,
		&teamSize, &a.ProjectTitle, &a.DatabaseType,
		&a.DifficultyLevel, &a.OtherDescription, &a.CreatedAt,
		&a.StudentName)
	if err != nil {
		logger.Error().Err(err).Msg("Error scanning achievement row")
		return a, fmt.Errorf("error scanning achievement: %w", err)
	}
	if teamSize.Valid {
		v := int(teamSize.Int32)
		a.TeamSize = &v
	}
	return a, nil
}
