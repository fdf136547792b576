package usecase

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CredentialValidator checks an email/password pair against a
// CredentialResolver. Email lookup is case-insensitive, passwords are not.
type CredentialValidator struct {
	resolver domain.CredentialResolver
	logger   *logger.Logger
}

func NewCredentialValidator(resolver domain.CredentialResolver, log *logger.Logger) *CredentialValidator {
	return &CredentialValidator{
		resolver: resolver,
		logger:   log.Named("credentials"),
	}
}

// Authenticate returns the profile bound to the credential. Every failure is
// reported as ErrInvalidCredentials so callers cannot tell unknown emails
// from wrong passwords.
func (v *CredentialValidator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "CredentialValidator.Authenticate")
	defer span.End()

	rc, err := v.resolver.ResolveCredential(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			v.logger.Warn("credential lookup failed", zap.Error(err))
		}
		return nil, domain.ErrInvalidCredentials
	}

	if !passwordMatches(rc.Credential, password) {
		return nil, domain.ErrInvalidCredentials
	}

	user := rc.Profile.Clone()
	if user.Email == "" {
		user.Email = rc.Credential.Email
	}
	if user.ID == "" {
		user.ID = rc.Credential.UserID
	}
	return &user, nil
}

func passwordMatches(c domain.Credential, password string) bool {
	if c.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	}
	return c.Password == password
}
