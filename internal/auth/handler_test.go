package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pinmapa/pinmapa-backend/internal/middleware"
	"github.com/pinmapa/pinmapa-backend/internal/token"
	"github.com/pinmapa/pinmapa-backend/internal/users"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is an in-memory users.Repository so the handler tests can run
// the full register/login/me/profile flows without a database.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]users.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, byID: make(map[int64]users.User)}
}

func (r *memoryRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *memoryRepo) Create(_ context.Context, params users.CreateUserParams) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := users.User{
		ID:        r.nextID,
		Username:  params.Username,
		Email:     params.Email,
		Password:  params.Password,
		CreatedAt: time.Now().UTC(),
	}
	r.byID[u.ID] = u
	r.nextID++
	return &u, nil
}

func (r *memoryRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) UsernameTaken(_ context.Context, username string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Update(_ context.Context, params users.UpdateUserParams) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.byID[params.ID]
	if params.Username != nil {
		u.Username = *params.Username
	}
	if params.Email != nil {
		u.Email = *params.Email
	}
	if params.Password != nil {
		u.Password = *params.Password
	}
	r.byID[params.ID] = u
	return &u, nil
}

const handlerTestSecret = "handler-test-secret"

func newTestRouter(t *testing.T) (*gin.Engine, *token.Manager, *memoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	manager := token.NewManager(token.Options{
		Secret:   handlerTestSecret,
		Validity: 7 * 24 * time.Hour,
	})
	repo := newMemoryRepo()
	service := NewAuthService(repo, manager, logger)
	handler := NewAuthHandler(service, logger, false)

	engine := gin.New()
	api := engine.Group("/api")
	RegisterAuthRoutes(handler, api, middleware.RequireAuth(manager, logger))
	return engine, manager, repo
}

func doJSON(engine *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRegisterEndToEnd(t *testing.T) {
	engine, manager, _ := newTestRouter(t)

	w := doJSON(engine, http.MethodPost, "/api/auth/register",
		`{"username":"ana","email":"ANA@x.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Usuario registrado exitosamente", resp.Message)
	assert.Equal(t, "ana@x.com", resp.User.Email)
	require.NotEmpty(t, resp.Token)

	claims, err := manager.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Greater(t, claims.IssuedAt, int64(0))
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, claims.IssuedAt+604800, *claims.ExpiresAt)

	// The fresh token authenticates a protected endpoint right away.
	me := doJSON(engine, http.MethodGet, "/api/auth/me", "", map[string]string{
		"X-Auth-Token": resp.Token,
	})
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"username":"ana"`)

	// Registering the same identity again conflicts.
	dup := doJSON(engine, http.MethodPost, "/api/auth/register",
		`{"username":"ana","email":"ana@x.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.JSONEq(t, `{"error":"El email o nombre de usuario ya está registrado"}`, dup.Body.String())
}

func TestLoginWrongPassword(t *testing.T) {
	engine, _, _ := newTestRouter(t)
	doJSON(engine, http.MethodPost, "/api/auth/register",
		`{"username":"ana","email":"ana@x.com","password":"secret1"}`, nil)

	w := doJSON(engine, http.MethodPost, "/api/auth/login",
		`{"email":"ana@x.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Email o contraseña incorrectos"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "token")
}

func TestProtectedEndpointTokenStates(t *testing.T) {
	engine, _, _ := newTestRouter(t)

	t.Run("No token", func(t *testing.T) {
		w := doJSON(engine, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Token no proporcionado"}`, w.Body.String())
	})

	t.Run("Expired token", func(t *testing.T) {
		// Same secret, negative validity: exp is already in the past.
		expiredManager := token.NewManager(token.Options{
			Secret:   handlerTestSecret,
			Validity: -time.Hour,
		})
		expired, err := expiredManager.Generate(token.CreateTokenParams{
			UserID: 1, Username: "ana", Email: "ana@x.com",
		})
		require.NoError(t, err)

		w := doJSON(engine, http.MethodGet, "/api/auth/me", "", map[string]string{
			"X-Auth-Token": expired,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Token inválido o expirado"}`, w.Body.String())
	})
}

func TestUpdateProfileEndToEnd(t *testing.T) {
	engine, manager, _ := newTestRouter(t)

	w := doJSON(engine, http.MethodPost, "/api/auth/register",
		`{"username":"ana","email":"ana@x.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var registered struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	update := doJSON(engine, http.MethodPut, "/api/auth/profile",
		`{"username":"anita"}`, map[string]string{
			"Authorization": "Bearer " + registered.Token,
		})
	require.Equal(t, http.StatusOK, update.Code, update.Body.String())

	var updated struct {
		Token string `json:"token"`
		User  struct {
			Username  string `json:"username"`
			CreatedAt string `json:"created_at"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(update.Body.Bytes(), &updated))
	assert.Equal(t, "anita", updated.User.Username)
	assert.NotEmpty(t, updated.User.CreatedAt)

	claims, err := manager.Verify(updated.Token)
	require.NoError(t, err)
	assert.Equal(t, "anita", claims.Username)

	// The pre-update token keeps working until its own expiry.
	me := doJSON(engine, http.MethodGet, "/api/auth/me", "", map[string]string{
		"X-Auth-Token": registered.Token,
	})
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), `"username":"anita"`)
}
