package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/dberrors"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// Helper to get nullable string from an optional value
func getNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// TeacherRepository handles teacher account database operations
type TeacherRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new teacher account.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	sql, args, err := r.sb.Insert("teachers").
		Columns("teacher_id", "teacher_name", "email", "phone_number", "password_hash", "gender", "department").
		Values(teacher.TeacherID, teacher.TeacherName, teacher.Email,
			getNullString(teacher.PhoneNumber), teacher.PasswordHash,
			getNullString(teacher.Gender), getNullString(teacher.Department)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create teacher query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teachers_pkey") {
			logger.Warn().Str("teacherID", teacher.TeacherID).Msg("Duplicate teacher ID on registration")
			return apperrors.ErrTeacherIDExists
		}
		if dberrors.IsDuplicateConstraintError(err, "teachers_email_key") {
			logger.Warn().Str("email", teacher.Email).Msg("Duplicate email on teacher registration")
			return apperrors.ErrEmailExists
		}
		logger.Error().Err(err).Str("teacherID", teacher.TeacherID).Msg("Error creating teacher")
		return fmt.Errorf("error creating teacher: %w", err)
	}

	logger.Info().Str("teacherID", teacher.TeacherID).Msg("Teacher account created")
	return nil
}

// GetByID retrieves a teacher by their identifier
func (r *TeacherRepository) GetByID(ctx context.Context, teacherID string) (*models.Teacher, error) {
	sql, args, err := r.sb.Select(
		"teacher_id", "teacher_name", "email",
		"COALESCE(phone_number, '')", "password_hash",
		"COALESCE(gender, '')", "COALESCE(department, '')").
		From("teachers").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	var teacher models.Teacher
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&teacher.TeacherID, &teacher.TeacherName, &teacher.Email,
		&teacher.PhoneNumber, &teacher.PasswordHash,
		&teacher.Gender, &teacher.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		logger.Error().Err(err).Str("teacherID", teacherID).Msg("Error scanning teacher row")
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	return &teacher, nil
}
