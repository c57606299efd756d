package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meritbook/meritbook/internal/app/models"
	"github.com/meritbook/meritbook/internal/app/models/dto"
	"github.com/meritbook/meritbook/internal/pkg/apperrors"
	"github.com/meritbook/meritbook/internal/pkg/logger"
)

// FederatedService maps identities asserted by the external provider onto
// existing local student accounts. Login only: no account is ever created
// from a federated claim.
//
// SECURITY GAP, by explicit decision: the provider's ID token is decoded but
// its signature is NOT verified server-side, so the session ultimately trusts
// client-supplied claims. Deploy behind the provider's Admin SDK verification
// before trusting this path with anything real.
type FederatedService interface {
	LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*models.Student, error)
}

type federatedServiceImpl struct {
	students StudentStore
}

// NewFederatedService creates a new federated login service instance
func NewFederatedService(students StudentStore) FederatedService {
	return &federatedServiceImpl{students: students}
}

// LoginWithGoogle resolves the claimed email to an existing student account.
// Unknown emails return ErrStudentNotFound and create nothing.
func (s *federatedServiceImpl) LoginWithGoogle(ctx context.Context, req dto.GoogleLoginRequest) (*models.Student, error) {
	email := req.Email

	// Prefer the email claim inside the ID token over the loose body field
	// when a token is supplied. ParseUnverified reads claims without checking
	// the signature; see the interface comment.
	if req.IDToken != "" {
		if claimed := emailFromUnverifiedToken(req.IDToken); claimed != "" {
			email = claimed
		}
	}

	if email == "" {
		return nil, apperrors.NewValidationError("Email is required")
	}

	student, err := s.students.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrStudentNotFound) {
			logger.Info().Str("email", email).Msg("Federated login for unregistered email")
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error resolving federated login: %w", err)
	}

	logger.Info().Str("studentID", student.StudentID).Msg("Federated login accepted")
	return student, nil
}

// emailFromUnverifiedToken pulls the email claim out of a JWT without
// verifying its signature. Returns "" when the token or claim is unusable.
func emailFromUnverifiedToken(tokenString string) string {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		logger.Warn().Err(err).Msg("Could not decode federated ID token")
		return ""
	}
	if email, ok := claims["email"].(string); ok {
		return email
	}
	return ""
}
