package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/auth"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// AuthService handles account registration and credential verification for
// both account namespaces.
type AuthService interface {
	RegisterStudent(ctx context.Context, req dto.StudentRegistration) error
	RegisterTeacher(ctx context.Context, req dto.TeacherRegistration) error
	VerifyStudent(ctx context.Context, studentID, password string) (*models.Student, error)
	VerifyTeacher(ctx context.Context, teacherID, password string) (*models.Teacher, error)
}

type authServiceImpl struct {
	students    StudentStore
	teachers    TeacherStore
	teacherCode string
}

// NewAuthService creates a new auth service instance. teacherCode is the
// shared registration secret gating teacher account creation.
func NewAuthService(students StudentStore, teachers TeacherStore, teacherCode string) AuthService {
	return &authServiceImpl{
		students:    students,
		teachers:    teachers,
		teacherCode: teacherCode,
	}
}

// RegisterStudent creates a student account with a hashed credential.
func (s *authServiceImpl) RegisterStudent(ctx context.Context, req dto.StudentRegistration) error {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	student := &models.Student{
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Gender:       req.Gender,
		Department:   req.Department,
	}

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentIDExists) || errors.Is(err, apperrors.ErrEmailExists) {
			return err
		}
		return fmt.Errorf("error registering student: %w", err)
	}
	return nil
}

// RegisterTeacher creates a teacher account. The registration code is checked
// once with a constant-time compare and never persisted.
func (s *authServiceImpl) RegisterTeacher(ctx context.Context, req dto.TeacherRegistration) error {
	if subtle.ConstantTimeCompare([]byte(req.RegistrationCode), []byte(s.teacherCode)) != 1 {
		logger.Warn().Str("teacherID", req.TeacherID).Msg("Teacher registration denied: bad code")
		return apperrors.ErrInvalidRegistrationCode
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	teacher := &models.Teacher{
		TeacherID:    req.TeacherID,
		TeacherName:  req.TeacherName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: hash,
		Gender:       req.Gender,
		Department:   req.Department,
	}

	if err := s.teachers.Create(ctx, teacher); err != nil {
		if errors.Is(err, apperrors.ErrTeacherIDExists) || errors.Is(err, apperrors.ErrEmailExists) {
			return err
		}
		return fmt.Errorf("error registering teacher: %w", err)
	}
	return nil
}

// VerifyStudent checks a student's credentials. An unknown identifier and a
// wrong password both come back as ErrInvalidCredentials; the caller cannot
// tell which happened.
func (s *authServiceImpl) VerifyStudent(ctx context.Context, studentID, password string) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error verifying student: %w", err)
	}

	if !auth.CheckPassword(student.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return student, nil
}

// VerifyTeacher checks a teacher's credentials with the same fail-closed,
// non-enumerating contract as VerifyStudent.
func (s *authServiceImpl) VerifyTeacher(ctx context.Context, teacherID, password string) (*models.Teacher, error) {
	teacher, err := s.teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTeacherNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error verifying teacher: %w", err)
	}

	if !auth.CheckPassword(teacher.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return teacher, nil
}
