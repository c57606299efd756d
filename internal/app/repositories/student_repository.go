package repositories

import (
	"context"
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

// StudentRepository handles student account database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new student account. Duplicate identifiers and emails are
// surfaced as distinct sentinels; the database constraint arbitrates
// concurrent registrations, so no partial row can remain.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("student_id", "student_name", "email", "phone_number", "password_hash", "gender", "department").
		Values(student.StudentID, student.StudentName, student.Email,
			getNullString(student.PhoneNumber), student.PasswordHash,
			getNullString(student.Gender), getNullString(student.Department)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_pkey") {
			logger.Warn().Str("studentID", student.StudentID).Msg("Duplicate student ID on registration")
			return apperrors.ErrStudentIDExists
		}
		if dberrors.IsDuplicateConstraintError(err, "students_email_key") {
			logger.Warn().Str("email", student.Email).Msg("Duplicate email on student registration")
			return apperrors.ErrEmailExists
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Str("studentID", student.StudentID).Msg("Student account created")
	return nil
}

// GetByID retrieves a student by their identifier
func (r *StudentRepository) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	return r.scanStudent(ctx, sql, args)
}

// GetByEmail retrieves a student by email. Used by federated login.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student by email query: %w", err)
	}

	return r.scanStudent(ctx, sql, args)
}

var studentColumns = []string{
	"student_id", "student_name", "email",
	"COALESCE(phone_number, '')", "password_hash",
	"COALESCE(gender, '')", "COALESCE(department, '')",
}

func (r *StudentRepository) scanStudent(ctx context.Context, sql string, args []interface{}) (*models.Student, error) {
	var student models.Student
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&student.StudentID, &student.StudentName, &student.Email,
		&student.PhoneNumber, &student.PasswordHash,
		&student.Gender, &student.Department)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &student, nil
}
