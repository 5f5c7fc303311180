package token

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auth-gateway/internal/auth"
)

func TestIssueVerify_Roundtrip(t *testing.T) {
	t.Parallel()

	i := NewIssuer("secret", 0)

	tests := []struct {
		name      string
		subjectID string
		role      auth.Role
		temporary bool
	}{
		{"admin", "adm-1", auth.RoleAdmin, false},
		{"owner", "own-1", auth.RoleRestaurantOwner, false},
		{"customer", "cus-1", auth.RoleCustomer, false},
		{"rider temporary", "rid-1", auth.RoleDeliveryRider, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := i.Issue(tt.subjectID, tt.role, tt.temporary)
			require.NoError(t, err)

			p, err := i.Verify(signed)
			require.NoError(t, err)
			require.Equal(t, tt.subjectID, p.SubjectID)
			require.Equal(t, tt.role, p.Role)
			require.Equal(t, tt.temporary, p.Temporary)
		})
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	i := NewIssuer("secret", 0)
	signed, err := i.Issue("u1", auth.RoleCustomer, false)
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	for pos := range sig {
		flipped := append([]byte(nil), sig...)
		if flipped[pos] == 'A' {
			flipped[pos] = 'B'
		} else {
			flipped[pos] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(flipped)

		_, err := i.Verify(tampered)
		require.ErrorIs(t, err, ErrMalformed, "flipped signature byte %d", pos)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	i := NewIssuer("secret", 0)

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := i.Verify(bad)
		require.ErrorIs(t, err, ErrMalformed)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	signed, err := NewIssuer("secret", 0).Issue("u1", auth.RoleCustomer, false)
	require.NoError(t, err)

	_, err = NewIssuer("other-secret", 0).Verify(signed)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	i := NewIssuer("secret", -time.Minute)
	signed, err := i.Issue("u1", auth.RoleCustomer, false)
	require.NoError(t, err)

	_, err = i.Verify(signed)
	require.ErrorIs(t, err, ErrExpired)
}

func TestIssue_NoExpiryUnlessConfigured(t *testing.T) {
	t.Parallel()

	i := NewIssuer("secret", 0)
	signed, err := i.Issue("u1", auth.RoleCustomer, false)
	require.NoError(t, err)

	// A zero-TTL issuer omits the exp claim entirely, so the token
	// never expires.
	p, err := i.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, "u1", p.SubjectID)
}
