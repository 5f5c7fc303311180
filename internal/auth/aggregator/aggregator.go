package aggregator

import (
	"context"
	"fmt"
	"time"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/credentials"
	"auth-gateway/internal/directory"
	"auth-gateway/internal/logger"
	"auth-gateway/internal/token"
)

// Aggregator resolves a credential pair against every partitioned
// identity store. Clients are held in priority order: when the same
// email exists in more than one partition, the earlier client's match
// wins. That ordering is the tie-break policy, configured per
// deployment, not an accident of response timing.
type Aggregator struct {
	clients []*directory.Client
	issuer  *token.Issuer
	overall time.Duration
	logger  *logger.Logger
}

// New creates an aggregator over the given store clients, which must
// already be sorted by partition priority.
func New(clients []*directory.Client, issuer *token.Issuer, overall time.Duration, logger *logger.Logger) *Aggregator {
	return &Aggregator{
		clients: clients,
		issuer:  issuer,
		overall: overall,
		logger:  logger,
	}
}

// LoginResult is a successful resolution: a signed bearer token and
// the client-safe view of the matched account.
type LoginResult struct {
	Token string
	User  auth.PublicAccount
}

type fetchResult struct {
	index    int
	accounts []auth.Account
	err      error
}

// Login fans out one store call per partition, joins all outcomes,
// then scans the successful ones in priority order for an exact email
// match and verifies the password against the matched record.
//
// A partition that fails or misses the overall deadline is treated as
// absent, never as a login failure. The caller therefore cannot tell
// "no such user" apart from "the one partition holding the user was
// unreachable"; that masking is a documented limitation of the
// design, not a bug.
func (a *Aggregator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := a.findAccount(ctx, email)
	if err != nil {
		return nil, err
	}

	ok, err := credentials.Verify(account.PasswordHash, password)
	if err != nil {
		a.logger.Error("credential verification failed",
			"partition", string(account.Role))
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}

	signed, err := a.issuer.Issue(account.ID, account.Role, false)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("login resolved",
		"user_id", account.ID,
		"role", string(account.Role))

	return &LoginResult{Token: signed, User: account.Public()}, nil
}

// findAccount runs the fan-out and the deterministic scan. All
// results are buffered before searching; the scan never starts while
// responses are still arriving, so partition priority alone decides
// ties regardless of which store answered first.
func (a *Aggregator) findAccount(ctx context.Context, email string) (*auth.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, a.overall)
	defer cancel()

	results := make(chan fetchResult, len(a.clients))
	for i, client := range a.clients {
		go func(i int, client *directory.Client) {
			accounts, err := client.ListUsers(ctx)
			results <- fetchResult{index: i, accounts: accounts, err: err}
		}(i, client)
	}

	// Join barrier: every partition reaches a terminal state
	// (reported or abandoned at the deadline) before any searching.
	collected := make([]*fetchResult, len(a.clients))
	pending := len(a.clients)
	for pending > 0 {
		select {
		case r := <-results:
			collected[r.index] = &r
			pending--
		case <-ctx.Done():
			pending = 0
		}
	}

	for i, client := range a.clients {
		r := collected[i]
		if r == nil {
			a.logger.Warn("partition did not respond in time",
				"partition", client.Partition().Name)
			continue
		}
		if r.err != nil {
			// Swallowed by design: one unreachable store must not
			// fail logins held by the others.
			a.logger.Warn("partition fetch failed",
				"partition", client.Partition().Name,
				"error", r.err.Error())
			continue
		}
		for _, account := range r.accounts {
			if account.Email == email {
				return &account, nil
			}
		}
	}

	return nil, auth.ErrUserNotFound
}
