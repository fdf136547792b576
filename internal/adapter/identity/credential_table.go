package identity

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
)

// CredentialTable resolves logins against the credentials shipped with the
// catalog. It is read-only after construction.
type CredentialTable struct {
	byEmail map[string]domain.ResolvedCredential
}

// NewCredentialTable indexes credentials by normalized email. A credential
// whose UserID matches no user still resolves, with a profile carrying only
// the email and id. When two rows share an email the first one wins.
func NewCredentialTable(credentials []domain.Credential, users []domain.User) *CredentialTable {
	usersByID := make(map[string]domain.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	t := &CredentialTable{byEmail: make(map[string]domain.ResolvedCredential, len(credentials))}
	for _, c := range credentials {
		key := domain.NormalizeEmail(c.Email)
		if _, exists := t.byEmail[key]; exists {
			continue
		}
		profile, ok := usersByID[c.UserID]
		if !ok {
			profile = domain.User{ID: c.UserID, Email: c.Email, Role: domain.RoleClient}
		}
		t.byEmail[key] = domain.ResolvedCredential{Credential: c, Profile: profile.Clone()}
	}
	return t
}

// NewCredentialTableFromCatalog is a shortcut for catalogs that carry their
// own users and credentials.
func NewCredentialTableFromCatalog(c *domain.Catalog) *CredentialTable {
	return NewCredentialTable(c.Credentials, c.Users)
}

func (t *CredentialTable) ResolveCredential(_ context.Context, email string) (*domain.ResolvedCredential, error) {
	rc, ok := t.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	rc.Profile = rc.Profile.Clone()
	return &rc, nil
}

func (t *CredentialTable) Len() int {
	return len(t.byEmail)
}
