package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"auth-gateway/internal/auth"
	"auth-gateway/internal/auth/aggregator"
	"auth-gateway/internal/auth/credentials"
	"auth-gateway/internal/directory"
	"auth-gateway/internal/testutil"
	"auth-gateway/internal/token"
)

func newLoginRouter(t *testing.T, customerUsers map[string]string) (*gin.Engine, *token.Issuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	records := make([]map[string]any, 0, len(customerUsers))
	i := 0
	for email, password := range customerUsers {
		hash, err := credentials.HashPassword(password)
		require.NoError(t, err)
		i++
		records = append(records, map[string]any{
			"externalId":   "c" + string(rune('0'+i)),
			"email":        email,
			"passwordHash": hash,
			"firstName":    "Test",
			"lastName":     "Customer",
		})
	}

	store := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"users": records})
	}))
	t.Cleanup(store.Close)

	clients := []*directory.Client{
		directory.NewClient(directory.Partition{
			Name:    "customer",
			Role:    auth.RoleCustomer,
			BaseURL: store.URL,
		}, &http.Client{Timeout: 2 * time.Second}),
	}

	issuer := token.NewIssuer("test-secret", 0)
	agg := aggregator.New(clients, issuer, 3*time.Second, testutil.MakeNoopLogger())

	h := NewHandler(agg, nil, nil, "google", nil, issuer, "http://frontend/callback", testutil.MakeNoopLogger())

	router := gin.New()
	h.RegisterRoutes(router)
	return router, issuer
}

func postLogin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	router, issuer := newLoginRouter(t, map[string]string{"a@x.com": "secret"})

	rec := postLogin(router, `{"email":"a@x.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string             `json:"token"`
		User  auth.PublicAccount `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, auth.RoleCustomer, body.User.Role)
	require.Equal(t, "a@x.com", body.User.Email)

	principal, err := issuer.Verify(body.Token)
	require.NoError(t, err)
	require.Equal(t, body.User.ID, principal.SubjectID)
	require.Equal(t, auth.RoleCustomer, principal.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	router, _ := newLoginRouter(t, map[string]string{"a@x.com": "secret"})

	rec := postLogin(router, `{"email":"a@x.com","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"message":"Invalid password"}`, rec.Body.String())
}

func TestLogin_UserNotFound(t *testing.T) {
	t.Parallel()

	router, _ := newLoginRouter(t, map[string]string{"a@x.com": "secret"})

	rec := postLogin(router, `{"email":"absent@x.com","password":"secret"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestLogin_InvalidBody(t *testing.T) {
	t.Parallel()

	router, _ := newLoginRouter(t, nil)

	rec := postLogin(router, `{"email":"a@x.com"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
