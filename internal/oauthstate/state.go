package oauthstate

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// TTL bounds how long a started handshake stays redeemable.
const TTL = 5 * time.Minute

// Handshake holds the server side of one in-flight OAuth redirect:
// the opaque state sent to the provider and the PKCE verifier that
// must accompany the code exchange.
type Handshake struct {
	State        string `json:"state"`
	CodeVerifier string `json:"codeVerifier"`
}

// New generates a handshake with 256 bits of entropy in both the
// state and the verifier.
func New() (*Handshake, error) {
	state, err := randomToken()
	if err != nil {
		return nil, err
	}
	verifier, err := randomToken()
	if err != nil {
		return nil, err
	}
	return &Handshake{State: state, CodeVerifier: verifier}, nil
}

// CodeChallenge returns the S256 challenge derived from the verifier.
func (h *Handshake) CodeChallenge() string {
	sum := sha256.Sum256([]byte(h.CodeVerifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("oauthstate: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Store persists in-flight handshakes between the start redirect and
// the provider callback. Implementations must make Consume one-shot:
// a state value redeems at most once.
type Store interface {
	Save(ctx context.Context, h Handshake) error
	Consume(ctx context.Context, state string) (*Handshake, error)
}
