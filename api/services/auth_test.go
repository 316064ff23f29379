package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/usario/creators-services/db"
	"github.com/usario/creators-services/internal/authn"
	"github.com/usario/creators-services/models"
)

func TestSignupService(t *testing.T) {
	svc, store := newTestService()
	created := testUser(models.RoleVA)

	store.On("CreateUser", mock.MatchedBy(func(u models.User) bool {
		return u.Email == "va@example.com" && u.FullName == "Val" && u.Role == models.RoleVA
	}), mock.MatchedBy(func(hash string) bool {
		return authn.CheckPassword(hash, "secret1")
	})).Return(&created, nil)

	w := httptest.NewRecorder()
	SignupService(svc, w, newRequest(http.MethodPost, "/api/auth/signup",
		models.SignupRequest{Email: " va@example.com ", Password: "secret1", FullName: "Val"}, nil, nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp models.SignupResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, created.ID, resp.User.ID)
	store.AssertExpectations(t)
}

func TestSignupService_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.SignupRequest
		want string
	}{
		{"missing name", models.SignupRequest{Email: "a@b.c", Password: "secret1"}, "Email, password, and full name are required"},
		{"short password", models.SignupRequest{Email: "a@b.c", Password: "abc", FullName: "A"}, "Password must be at least 6 characters"},
		{"admin role", models.SignupRequest{Email: "a@b.c", Password: "secret1", FullName: "A", Role: models.RoleAdmin}, "Role must be va or client"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			w := httptest.NewRecorder()
			SignupService(svc, w, newRequest(http.MethodPost, "/api/auth/signup", tt.req, nil, nil))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, errorMessage(t, w))
			store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
		})
	}
}

func TestSignupService_DuplicateEmail(t *testing.T) {
	svc, store := newTestService()
	store.On("CreateUser", mock.Anything, mock.Anything).Return(nil, db.ErrConflict)

	w := httptest.NewRecorder()
	SignupService(svc, w, newRequest(http.MethodPost, "/api/auth/signup",
		models.SignupRequest{Email: "va@example.com", Password: "secret1", FullName: "Val", Role: models.RoleClient}, nil, nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSigninService(t *testing.T) {
	svc, store := newTestService()
	user := testUser(models.RoleVA)
	hash, err := authn.HashPassword("secret1")
	require.NoError(t, err)

	store.On("GetUserCredentials", "va@example.com").Return(&user, hash, nil)

	w := httptest.NewRecorder()
	SigninService(svc, w, newRequest(http.MethodPost, "/api/auth/signin",
		models.SigninRequest{Email: "va@example.com", Password: "secret1"}, nil, nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.SigninResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "bearer", resp.Session.TokenType)

	claims, err := svc.Tokens.Parse(resp.Session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, authn.AccessToken, claims.TokenType)

	// Wrong password
	w = httptest.NewRecorder()
	SigninService(svc, w, newRequest(http.MethodPost, "/api/auth/signin",
		models.SigninRequest{Email: "va@example.com", Password: "wrong-password"}, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorMessage(t, w))
}

func TestSigninService_UnknownUser(t *testing.T) {
	svc, store := newTestService()
	store.On("GetUserCredentials", "nobody@example.com").Return(nil, "", nil)

	w := httptest.NewRecorder()
	SigninService(svc, w, newRequest(http.MethodPost, "/api/auth/signin",
		models.SigninRequest{Email: "nobody@example.com", Password: "secret1"}, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshService(t *testing.T) {
	svc, store := newTestService()
	revoker := new(MockRevoker)
	svc.Sessions = revoker

	user := testUser(models.RoleClient)
	session, err := svc.Tokens.Issue(user)
	require.NoError(t, err)
	refreshClaims, err := svc.Tokens.Parse(session.RefreshToken)
	require.NoError(t, err)

	store.On("GetUser", user.ID).Return(&user, nil)
	revoker.On("Claim", refreshClaims.Id, mock.AnythingOfType("time.Duration")).Return(true, nil).Once()

	w := httptest.NewRecorder()
	RefreshService(svc, w, newRequest(http.MethodPost, "/api/auth/refresh",
		models.RefreshRequest{RefreshToken: session.RefreshToken}, nil, nil))
	require.Equal(t, http.StatusOK, w.Code)
	revoker.AssertExpectations(t)

	// An access token is not a refresh token
	w = httptest.NewRecorder()
	RefreshService(svc, w, newRequest(http.MethodPost, "/api/auth/refresh",
		models.RefreshRequest{RefreshToken: session.AccessToken}, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Replaying the rotated token fails
	revoker.On("Claim", refreshClaims.Id, mock.AnythingOfType("time.Duration")).Return(false, nil)
	w = httptest.NewRecorder()
	RefreshService(svc, w, newRequest(http.MethodPost, "/api/auth/refresh",
		models.RefreshRequest{RefreshToken: session.RefreshToken}, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	store.AssertNumberOfCalls(t, "GetUser", 1)
}

// memoryRevoker claims token ids under a lock, like SETNX.
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = true
	return nil
}

func (m *memoryRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[tokenID], nil
}

func (m *memoryRevoker) Claim(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked[tokenID] {
		return false, nil
	}
	m.revoked[tokenID] = true
	return true, nil
}

func TestRefreshService_ConcurrentReuse(t *testing.T) {
	svc, store := newTestService()
	svc.Sessions = &memoryRevoker{revoked: map[string]bool{}}

	user := testUser(models.RoleVA)
	session, err := svc.Tokens.Issue(user)
	require.NoError(t, err)
	store.On("GetUser", user.ID).Return(&user, nil)

	const attempts = 8
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := httptest.NewRecorder()
			RefreshService(svc, w, newRequest(http.MethodPost, "/api/auth/refresh",
				models.RefreshRequest{RefreshToken: session.RefreshToken}, nil, nil))
			codes[i] = w.Code
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, code := range codes {
		if code == http.StatusOK {
			ok++
		} else {
			assert.Equal(t, http.StatusUnauthorized, code)
		}
	}
	assert.Equal(t, 1, ok)
}

func TestSignoutService(t *testing.T) {
	svc, _ := newTestService()
	revoker := new(MockRevoker)
	svc.Sessions = revoker

	user := testUser(models.RoleVA)
	revoker.On("Revoke", "jti-"+user.ID.String(), mock.AnythingOfType("time.Duration")).Return(nil)

	w := httptest.NewRecorder()
	SignoutService(svc, w, newRequest(http.MethodPost, "/api/auth/signout", nil, &user, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	revoker.AssertExpectations(t)
}

func TestSignoutService_NoClaims(t *testing.T) {
	svc, _ := newTestService()
	w := httptest.NewRecorder()
	SignoutService(svc, w, newRequest(http.MethodPost, "/api/auth/signout", nil, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCurrentUserService(t *testing.T) {
	svc, store := newTestService()
	user := testUser(models.RoleAdmin)
	store.On("GetUser", user.ID).Return(&user, nil)

	w := httptest.NewRecorder()
	CurrentUserService(svc, w, newRequest(http.MethodGet, "/api/auth/user", nil, &user, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.UserResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, user.Email, resp.User.Email)
}

func TestTestService(t *testing.T) {
	svc, _ := newTestService()
	w := httptest.NewRecorder()
	TestService(svc, w, newRequest(http.MethodGet, "/api/test", nil, nil, nil))

	var resp models.TestResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "API is working!", resp.Message)
	assert.Equal(t, "2024-03-09T12:00:00Z", resp.Timestamp)
}
