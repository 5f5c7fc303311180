package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"auth-gateway/internal/auth"
)

// Partition describes one role-scoped identity store: where to reach
// it and which role it owns.
type Partition struct {
	Name    string // config name, e.g. "admin"
	Role    auth.Role
	BaseURL string
}

// Client performs the gateway's outbound calls against a single
// partition store. The underlying http.Client is shared process-wide
// and read-only after startup, so a Client is safe for concurrent use.
type Client struct {
	partition Partition
	http      *http.Client
}

// NewClient creates a store client for one partition.
func NewClient(p Partition, hc *http.Client) *Client {
	return &Client{partition: p, http: hc}
}

// Partition returns the partition this client is bound to.
func (c *Client) Partition() Partition {
	return c.partition
}

type userRecord struct {
	ExternalID     string `json:"externalId"`
	Email          string `json:"email"`
	PasswordHash   string `json:"passwordHash,omitempty"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Role           string `json:"role,omitempty"`
	ExternalAuthID string `json:"externalAuthId,omitempty"`
}

type listUsersResponse struct {
	Users []userRecord `json:"users"`
}

type createUserRequest struct {
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PasswordHash   string `json:"passwordHash"`
	Role           string `json:"role"`
	ExternalAuthID string `json:"externalAuthId,omitempty"`
}

type createUserResponse struct {
	InsertedID string `json:"insertedId"`
}

func (c *Client) account(r userRecord) auth.Account {
	role := auth.Role(r.Role)
	if !role.Valid() {
		// The store owns exactly one role; records that omit it
		// inherit the partition's.
		role = c.partition.Role
	}
	return auth.Account{
		ID:             r.ExternalID,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Role:           role,
		ExternalAuthID: r.ExternalAuthID,
	}
}

// ListUsers fetches the partition's user list. Any non-200 status or
// transport failure is returned as an error, which the aggregator
// treats as this partition's failure marker.
func (c *Client) ListUsers(ctx context.Context) ([]auth.Account, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.partition.BaseURL+"/users", nil)
	if err != nil {
		return nil, fmt.Errorf("%s store: failed to build request: %w", c.partition.Name, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s store unreachable: %w", c.partition.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s store returned status %d", c.partition.Name, resp.StatusCode)
	}

	var body listUsersResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s store: failed to decode users: %w", c.partition.Name, err)
	}

	accounts := make([]auth.Account, 0, len(body.Users))
	for _, r := range body.Users {
		accounts = append(accounts, c.account(r))
	}
	return accounts, nil
}

// FindByEmail looks up a single account by exact email in this
// partition only. Returns (nil, nil) when no record matches.
func (c *Client) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	accounts, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, nil
}

// Create persists a new account in this partition and returns the
// store-assigned id. Exactly-once semantics depend on a uniqueness
// constraint owned by the store, not by this client.
func (c *Client) Create(ctx context.Context, account auth.Account) (string, error) {
	payload, err := json.Marshal(createUserRequest{
		Email:          account.Email,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		PasswordHash:   account.PasswordHash,
		Role:           string(account.Role),
		ExternalAuthID: account.ExternalAuthID,
	})
	if err != nil {
		return "", fmt.Errorf("%s store: failed to encode user: %w", c.partition.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.partition.BaseURL+"/users", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%s store: failed to build request: %w", c.partition.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s store unreachable: %w", c.partition.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%s store rejected create with status %d", c.partition.Name, resp.StatusCode)
	}

	var body createUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%s store: failed to decode create response: %w", c.partition.Name, err)
	}
	if body.InsertedID == "" {
		return "", fmt.Errorf("%s store returned empty inserted id", c.partition.Name)
	}

	return body.InsertedID, nil
}
