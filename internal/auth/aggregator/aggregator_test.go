package aggregator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/credentials"
	"auth-gateway/internal/directory"
	"auth-gateway/internal/testutil"
	"auth-gateway/internal/token"
)

type storedUser struct {
	id       string
	email    string
	password string
}

func newPartitionServer(t *testing.T, users ...storedUser) *httptest.Server {
	t.Helper()

	records := make([]map[string]any, 0, len(users))
	for _, u := range users {
		hash, err := credentials.HashPassword(u.password)
		require.NoError(t, err)
		records = append(records, map[string]any{
			"externalId":   u.id,
			"email":        u.email,
			"passwordHash": hash,
			"firstName":    "Test",
			"lastName":     "User",
		})
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"users": records})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFailingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAggregator(t *testing.T, partitions map[auth.Role]string) (*Aggregator, *token.Issuer) {
	t.Helper()

	// Priority order fixed as admin, owner, customer, rider.
	order := []struct {
		name string
		role auth.Role
	}{
		{"admin", auth.RoleAdmin},
		{"owner", auth.RoleRestaurantOwner},
		{"customer", auth.RoleCustomer},
		{"rider", auth.RoleDeliveryRider},
	}

	clients := make([]*directory.Client, 0, len(partitions))
	for _, p := range order {
		url, ok := partitions[p.role]
		if !ok {
			continue
		}
		clients = append(clients, directory.NewClient(directory.Partition{
			Name:    p.name,
			Role:    p.role,
			BaseURL: url,
		}, &http.Client{Timeout: 2 * time.Second}))
	}

	issuer := token.NewIssuer("test-secret", 0)
	return New(clients, issuer, 3*time.Second, testutil.MakeNoopLogger()), issuer
}

func TestLogin_MatchInSinglePartition(t *testing.T) {
	t.Parallel()

	customer := newPartitionServer(t, storedUser{id: "c1", email: "a@x.com", password: "secret"})
	admin := newPartitionServer(t)

	agg, issuer := newAggregator(t, map[auth.Role]string{
		auth.RoleAdmin:    admin.URL,
		auth.RoleCustomer: customer.URL,
	})

	res, err := agg.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, "c1", res.User.ID)
	require.Equal(t, auth.RoleCustomer, res.User.Role)

	principal, err := issuer.Verify(res.Token)
	require.NoError(t, err)
	require.Equal(t, "c1", principal.SubjectID)
	require.Equal(t, auth.RoleCustomer, principal.Role)
}

func TestLogin_PartitionFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	admin := newFailingServer(t)
	customer := newPartitionServer(t, storedUser{id: "c1", email: "a@x.com", password: "secret"})

	agg, _ := newAggregator(t, map[auth.Role]string{
		auth.RoleAdmin:    admin.URL,
		auth.RoleCustomer: customer.URL,
	})

	res, err := agg.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, auth.RoleCustomer, res.User.Role)
}

func TestLogin_TieBreakPrefersHigherPriorityPartition(t *testing.T) {
	t.Parallel()

	// Same email in admin and customer stores with different
	// passwords; admin is configured first, so admin wins.
	admin := newPartitionServer(t, storedUser{id: "adm1", email: "dup@x.com", password: "admin-pass"})
	customer := newPartitionServer(t, storedUser{id: "c1", email: "dup@x.com", password: "customer-pass"})

	agg, _ := newAggregator(t, map[auth.Role]string{
		auth.RoleAdmin:    admin.URL,
		auth.RoleCustomer: customer.URL,
	})

	res, err := agg.Login(context.Background(), "dup@x.com", "admin-pass")
	require.NoError(t, err)
	require.Equal(t, "adm1", res.User.ID)
	require.Equal(t, auth.RoleAdmin, res.User.Role)

	// The lower-priority password is never consulted once the
	// higher-priority partition holds the email.
	_, err = agg.Login(context.Background(), "dup@x.com", "customer-pass")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	customer := newPartitionServer(t, storedUser{id: "c1", email: "a@x.com", password: "secret"})

	agg, _ := newAggregator(t, map[auth.Role]string{
		auth.RoleCustomer: customer.URL,
	})

	_, err := agg.Login(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UserNotFound(t *testing.T) {
	t.Parallel()

	customer := newPartitionServer(t, storedUser{id: "c1", email: "a@x.com", password: "secret"})

	agg, _ := newAggregator(t, map[auth.Role]string{
		auth.RoleCustomer: customer.URL,
	})

	_, err := agg.Login(context.Background(), "absent@x.com", "secret")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestLogin_AllPartitionsDown(t *testing.T) {
	t.Parallel()

	admin := newFailingServer(t)
	customer := newFailingServer(t)

	agg, _ := newAggregator(t, map[auth.Role]string{
		auth.RoleAdmin:    admin.URL,
		auth.RoleCustomer: customer.URL,
	})

	// Total absence of a match surfaces as not-found, even when the
	// cause is unreachable stores.
	_, err := agg.Login(context.Background(), "a@x.com", "secret")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestLogin_SlowPartitionTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	customer := newPartitionServer(t, storedUser{id: "c1", email: "a@x.com", password: "secret"})

	clients := []*directory.Client{
		directory.NewClient(directory.Partition{Name: "admin", Role: auth.RoleAdmin, BaseURL: slow.URL}, http.DefaultClient),
		directory.NewClient(directory.Partition{Name: "customer", Role: auth.RoleCustomer, BaseURL: customer.URL}, http.DefaultClient),
	}
	agg := New(clients, token.NewIssuer("test-secret", 0), 300*time.Millisecond, testutil.MakeNoopLogger())

	res, err := agg.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	require.Equal(t, auth.RoleCustomer, res.User.Role)
}
