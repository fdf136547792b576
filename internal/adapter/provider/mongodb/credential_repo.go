package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CredentialRepository resolves logins against the credentials and users
// collections instead of the in-memory table.
type CredentialRepository struct {
	credentials *mongo.Collection
	users       *mongo.Collection
	logger      *logger.Logger
}

func NewCredentialRepository(db *mongo.Database, log *logger.Logger) *CredentialRepository {
	return &CredentialRepository{
		credentials: db.Collection(collCredentials),
		users:       db.Collection(collUsers),
		logger:      log.Named("credential_repo"),
	}
}

func (r *CredentialRepository) ResolveCredential(ctx context.Context, email string) (*domain.ResolvedCredential, error) {
	var cred credentialDocument
	err := r.credentials.FindOne(ctx, bson.M{"email_lower": domain.NormalizeEmail(email)}).Decode(&cred)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCredentialNotFound
		}
		r.logger.Error("ResolveCredential: failed to find credential", zap.Error(err))
		return nil, fmt.Errorf("find credential: %w", err)
	}

	rc := &domain.ResolvedCredential{Credential: toDomainCredential(cred)}

	var user userDocument
	err = r.users.FindOne(ctx, bson.M{"_id": cred.UserID}).Decode(&user)
	switch {
	case err == nil:
		rc.Profile = toDomainUser(user)
	case errors.Is(err, mongo.ErrNoDocuments):
		r.logger.Info("ResolveCredential: credential without user profile", zap.String("user_id", cred.UserID))
		rc.Profile = domain.User{ID: cred.UserID, Email: cred.Email, Role: domain.RoleClient}
	default:
		r.logger.Error("ResolveCredential: failed to find user", zap.String("user_id", cred.UserID), zap.Error(err))
		return nil, fmt.Errorf("find user %s: %w", cred.UserID, err)
	}
	return rc, nil
}
