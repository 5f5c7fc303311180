package federation

import (
	"context"
	"fmt"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/credentials"
	"auth-gateway/internal/logger"
)

// CustomerStore is the slice of the customer-partition client the
// bridge needs. Federated identities are only ever provisioned into
// the customer partition by policy.
type CustomerStore interface {
	FindByEmail(ctx context.Context, email string) (*auth.Account, error)
	Create(ctx context.Context, account auth.Account) (string, error)
}

// Bridge maps a verified external identity onto a customer account,
// creating one on first login. It is the ONLY place where
// identity-to-account mapping logic lives.
type Bridge struct {
	store  CustomerStore
	logger *logger.Logger
}

// New creates a federation bridge over the customer-partition store.
func New(store CustomerStore, logger *logger.Logger) *Bridge {
	return &Bridge{store: store, logger: logger}
}

// Resolution is the outcome of a federated login: the resolved
// account and whether this call created it.
type Resolution struct {
	Account auth.Account
	Created bool
}

// Resolve finds the account for a federated identity by email, or
// creates one with role fixed to Customer. An existing account is
// returned unchanged: role and identity are never mutated by a
// federated login, which closes the privilege-escalation path through
// OAuth.
//
// The create is not exactly-once under concurrent duplicate callbacks
// for the same brand-new email; two simultaneous first logins may
// both insert. De-duplication requires a unique email index owned by
// the customer store, which is outside this gateway's boundary.
func (b *Bridge) Resolve(ctx context.Context, identity *auth.Identity) (*Resolution, error) {
	if identity == nil || identity.Email == "" {
		return nil, auth.ErrMissingEmail
	}

	existing, err := b.store.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up federated email: %w", err)
	}

	if existing != nil {
		if existing.Role != auth.RoleCustomer {
			b.logger.Warn("federated login resolved to non-customer account",
				"role", string(existing.Role))
			return nil, auth.ErrRoleNotEligible
		}
		return &Resolution{Account: *existing, Created: false}, nil
	}

	// First federated login: the account gets a hash of random bytes
	// whose plaintext is discarded, so it has no password login path.
	hash, err := credentials.HashPassword(credentials.RandomPassword())
	if err != nil {
		return nil, fmt.Errorf("failed to seed password hash: %w", err)
	}

	account := auth.Account{
		Email:          identity.Email,
		FirstName:      identity.GivenName,
		LastName:       identity.FamilyName,
		PasswordHash:   hash,
		Role:           auth.RoleCustomer,
		ExternalAuthID: identity.ExternalSubjectID,
	}

	insertedID, err := b.store.Create(ctx, account)
	if err != nil {
		b.logger.Error("customer store rejected federated account create",
			"error", err.Error())
		return nil, auth.ErrAccountCreationFailed
	}
	account.ID = insertedID

	b.logger.Info("federated account created",
		"user_id", insertedID,
		"provider", identity.Provider)

	return &Resolution{Account: account, Created: true}, nil
}
