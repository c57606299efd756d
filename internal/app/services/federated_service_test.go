package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
)

func signedTokenWithEmail(t *testing.T, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": email})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestGoogleLoginResolvesExistingStudent(t *testing.T) {
	students := newMockStudentStore(&models.Student{
		StudentID:   "S1001",
		StudentName: "Ada Lovelace",
		Email:       "ada@example.edu",
	})
	svc := NewFederatedService(students)

	student, err := svc.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{
		Email: "ada@example.edu",
	})
	require.NoError(t, err)
	assert.Equal(t, "S1001", student.StudentID)
}

func TestGoogleLoginPrefersTokenEmailClaim(t *testing.T) {
	students := newMockStudentStore(&models.Student{
		StudentID: "S1001",
		Email:     "ada@example.edu",
	})
	svc := NewFederatedService(students)

	// The body claims a different address; the token claim wins.
	student, err := svc.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{
		Email:   "attacker@example.edu",
		IDToken: signedTokenWithEmail(t, "ada@example.edu"),
	})
	require.NoError(t, err)
	assert.Equal(t, "S1001", student.StudentID)
}

func TestGoogleLoginMalformedTokenFallsBackToBodyEmail(t *testing.T) {
	students := newMockStudentStore(&models.Student{
		StudentID: "S1001",
		Email:     "ada@example.edu",
	})
	svc := NewFederatedService(students)

	student, err := svc.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{
		Email:   "ada@example.edu",
		IDToken: "not-a-jwt",
	})
	require.NoError(t, err)
	assert.Equal(t, "S1001", student.StudentID)
}

func TestGoogleLoginUnknownEmailCreatesNothing(t *testing.T) {
	students := newMockStudentStore()
	svc := NewFederatedService(students)

	_, err := svc.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{
		Email: "nobody@example.edu",
	})
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.Empty(t, students.created, "federated login must never create accounts")
}

func TestGoogleLoginMissingEmail(t *testing.T) {
	svc := NewFederatedService(newMockStudentStore())

	_, err := svc.LoginWithGoogle(context.Background(), dto.GoogleLoginRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
