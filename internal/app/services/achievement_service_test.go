package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
)

func submitRequest(achievementType string) dto.SubmitAchievementRequest {
	return dto.SubmitAchievementRequest{
		StudentID:       "S1001",
		AchievementType: achievementType,
		EventName:       "National Tech Fest",
		AchievementDate: "2024-03-15",
		Organizer:       "IEEE",
		Position:        "Winner",
	}
}

func submitFixture() (*mockStudentStore, *mockAchievementStore, *mockCertificateStorage, AchievementService) {
	students := newMockStudentStore(&models.Student{
		StudentID:   "S1001",
		StudentName: "Ada Lovelace",
	})
	achievements := &mockAchievementStore{}
	storage := &mockCertificateStorage{path: "uploads/1_cert.pdf"}
	svc := NewAchievementService(students, achievements, storage)
	return students, achievements, storage, svc
}

func TestSubmitStoresRecord(t *testing.T) {
	_, achievements, storage, svc := submitFixture()

	req := submitRequest("symposium")
	req.SymposiumTheme = "AI in Healthcare"
	req.TeamSize = "3"

	result, err := svc.Submit(context.Background(), "T2001", req, nil)
	require.NoError(t, err)

	assert.Equal(t, "Achievement of Ada Lovelace has been successfully registered!!", result.Message)
	assert.Equal(t, "Ada Lovelace", result.StudentName)
	assert.Zero(t, storage.calls, "no certificate was posted")

	require.Len(t, achievements.inserted, 1)
	row := achievements.inserted[0]
	assert.Equal(t, "T2001", row.TeacherID)
	assert.Equal(t, "S1001", row.StudentID)
	assert.Equal(t, models.TypeSymposium, row.AchievementType)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), row.AchievementDate)
	require.NotNil(t, row.SymposiumTheme)
	assert.Equal(t, "AI in Healthcare", *row.SymposiumTheme)
	require.NotNil(t, row.TeamSize)
	assert.Equal(t, 3, *row.TeamSize)
	assert.Nil(t, row.CertificatePath)
}

func TestSubmitBlankTeamSizeStaysAbsent(t *testing.T) {
	_, achievements, _, svc := submitFixture()

	req := submitRequest("symposium")
	req.TeamSize = "  "

	_, err := svc.Submit(context.Background(), "T2001", req, nil)
	require.NoError(t, err)
	require.Len(t, achievements.inserted, 1)
	assert.Nil(t, achievements.inserted[0].TeamSize)
}

func TestSubmitInvalidTeamSize(t *testing.T) {
	for _, raw := range []string{
		"three",
		"0",
		"-2",
		"3.5",
		"4294967299", // beyond the storage column's 32-bit range
	} {
		t.Run(raw, func(t *testing.T) {
			_, achievements, _, svc := submitFixture()

			req := submitRequest("symposium")
			req.TeamSize = raw

			_, err := svc.Submit(context.Background(), "T2001", req, nil)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Empty(t, achievements.inserted)
		})
	}
}

func TestSubmitDropsFieldsForeignToType(t *testing.T) {
	_, achievements, _, svc := submitFixture()

	// A publication keeps the paper fields only; team size and theme are
	// discarded even though the form posted them.
	req := submitRequest("publication")
	req.PaperTitle = "On Computable Numbers"
	req.JournalName = "Proc. LMS"
	req.SymposiumTheme = "ignored"
	req.TeamSize = "4"

	_, err := svc.Submit(context.Background(), "T2001", req, nil)
	require.NoError(t, err)

	require.Len(t, achievements.inserted, 1)
	row := achievements.inserted[0]
	require.NotNil(t, row.PaperTitle)
	assert.Equal(t, "On Computable Numbers", *row.PaperTitle)
	require.NotNil(t, row.JournalName)
	assert.Nil(t, row.SymposiumTheme)
	assert.Nil(t, row.TeamSize)
}

func TestSubmitUnknownType(t *testing.T) {
	_, achievements, _, svc := submitFixture()

	_, err := svc.Submit(context.Background(), "T2001", submitRequest("hackathon"), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, achievements.inserted)
}

func TestSubmitBadDate(t *testing.T) {
	_, achievements, _, svc := submitFixture()

	req := submitRequest("symposium")
	req.AchievementDate = "15/03/2024"

	_, err := svc.Submit(context.Background(), "T2001", req, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, achievements.inserted)
}

func TestSubmitUnknownStudent(t *testing.T) {
	_, achievements, storage, svc := submitFixture()

	req := submitRequest("symposium")
	req.StudentID = "S9999"
	certificate := &multipart.FileHeader{Filename: "cert.pdf"}

	_, err := svc.Submit(context.Background(), "T2001", req, certificate)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.Empty(t, achievements.inserted)
	assert.Zero(t, storage.calls, "no file may be written for a rejected submission")
}

func TestSubmitWithCertificate(t *testing.T) {
	_, achievements, storage, svc := submitFixture()

	certificate := &multipart.FileHeader{Filename: "cert.pdf"}
	_, err := svc.Submit(context.Background(), "T2001", submitRequest("other"), certificate)
	require.NoError(t, err)

	assert.Equal(t, 1, storage.calls)
	require.Len(t, achievements.inserted, 1)
	require.NotNil(t, achievements.inserted[0].CertificatePath)
	assert.Equal(t, "uploads/1_cert.pdf", *achievements.inserted[0].CertificatePath)
}

func TestSubmitRejectedCertificateBlocksInsert(t *testing.T) {
	_, achievements, storage, svc := submitFixture()
	storage.err = apperrors.ErrFileTypeNotAllowed

	certificate := &multipart.FileHeader{Filename: "cert.exe"}
	_, err := svc.Submit(context.Background(), "T2001", submitRequest("other"), certificate)
	assert.ErrorIs(t, err, apperrors.ErrFileTypeNotAllowed)
	assert.Empty(t, achievements.inserted)
}

func TestSubmitInsertFailure(t *testing.T) {
	_, achievements, _, svc := submitFixture()
	achievements.insertErr = errors.New("connection refused")

	_, err := svc.Submit(context.Background(), "T2001", submitRequest("symposium"), nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrValidationFailed)
}
