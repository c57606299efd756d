package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// SubmitResult is returned after a successful achievement submission.
type SubmitResult struct {
	RecordID    int64
	StudentName string
	Message     string
}

// AchievementService validates and persists achievement records submitted by
// authenticated teachers.
type AchievementService interface {
	Submit(ctx context.Context, teacherID string, req dto.SubmitAchievementRequest, certificate *multipart.FileHeader) (*SubmitResult, error)
}

type achievementServiceImpl struct {
	students     StudentStore
	achievements AchievementStore
	storage      CertificateStorage
}

// NewAchievementService creates a new achievement service instance
func NewAchievementService(students StudentStore, achievements AchievementStore, storage CertificateStorage) AchievementService {
	return &achievementServiceImpl{
		students:     students,
		achievements: achievements,
		storage:      storage,
	}
}

// Submit validates the request, stores the optional certificate file, and
// inserts the achievement row authored by teacherID.
//
// The certificate is written before the row commits. If the insert then
// fails, the file is left behind deliberately: an orphaned upload is a known,
// accepted inconsistency, whereas deleting it could destroy the only copy of
// a certificate for a row that did in fact commit.
func (s *achievementServiceImpl) Submit(ctx context.Context, teacherID string, req dto.SubmitAchievementRequest, certificate *multipart.FileHeader) (*SubmitResult, error) {
	achievementType := models.AchievementType(req.AchievementType)
	if !achievementType.Valid() {
		return nil, apperrors.NewValidationError("Unknown achievement type.")
	}

	achievementDate, err := time.Parse("2006-01-02", req.AchievementDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Achievement date must be in YYYY-MM-DD format.")
	}

	teamSize, err := parseTeamSize(req.TeamSize)
	if err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error resolving student: %w", err)
	}

	a := &models.Achievement{
		StudentID:       student.StudentID,
		TeacherID:       teacherID,
		AchievementType: achievementType,
		EventName:       req.EventName,
		AchievementDate: achievementDate,
		Organizer:       req.Organizer,
		Position:        req.Position,
		Description:     optional(req.Description),
	}
	applyTypeFields(a, req, teamSize)

	// File first, row second. See the method comment for why a failed insert
	// does not clean up the file.
	if certificate != nil && certificate.Filename != "" {
		path, err := s.storage.SaveCertificate(certificate)
		if err != nil {
			return nil, err
		}
		a.CertificatePath = optional(path)
	}

	if err := s.achievements.Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("error storing achievement: %w", err)
	}

	logger.Info().Int64("id", a.ID).Str("teacherID", teacherID).
		Str("studentID", student.StudentID).Msg("Achievement submitted")

	return &SubmitResult{
		RecordID:    a.ID,
		StudentName: student.StudentName,
		Message:     fmt.Sprintf("Achievement of %s has been successfully registered!!", student.StudentName),
	}, nil
}

// parseTeamSize maps a blank field to absent and anything else to a positive
// integer. The range check keeps the value inside the storage column's 32-bit
// range, so no form value can wrap on the way to the row.
func parseTeamSize(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 1 {
		return nil, apperrors.NewValidationError("Team size must be a positive whole number.")
	}
	size := int(n)
	return &size, nil
}

// applyTypeFields keeps only the optional fields meaningful for the submitted
// achievement type; everything else stays NULL regardless of what the form
// posted.
func applyTypeFields(a *models.Achievement, req dto.SubmitAchievementRequest, teamSize *int) {
	switch a.AchievementType {
	case models.TypeSymposium:
		a.SymposiumTheme = optional(req.SymposiumTheme)
		a.TeamSize = teamSize
	case models.TypeCodingContest:
		a.ProgrammingLanguage = optional(req.ProgrammingLanguage)
		a.CodingPlatform = optional(req.CodingPlatform)
		a.DifficultyLevel = optional(req.DifficultyLevel)
		a.TeamSize = teamSize
	case models.TypePublication:
		a.PaperTitle = optional(req.PaperTitle)
		a.JournalName = optional(req.JournalName)
	case models.TypeConference:
		a.ConferenceLevel = optional(req.ConferenceLevel)
		a.ConferenceRole = optional(req.ConferenceRole)
		a.PaperTitle = optional(req.PaperTitle)
	case models.TypeProject:
		a.ProjectTitle = optional(req.ProjectTitle)
		a.ProgrammingLanguage = optional(req.ProgrammingLanguage)
		a.TeamSize = teamSize
	case models.TypeDatabaseDesign:
		a.ProjectTitle = optional(req.ProjectTitle)
		a.DatabaseType = optional(req.DatabaseType)
		a.DifficultyLevel = optional(req.DifficultyLevel)
		a.TeamSize = teamSize
	case models.TypeOther:
		a.OtherDescription = optional(req.OtherDescription)
	}
}

// optional maps an empty form value to a NULL column.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
