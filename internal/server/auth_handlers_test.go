package server

import (
	"net/http"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const strongPassword = "Sup3r-Secret-Pass!"

func TestSignup(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)

	t.Run("creates a poster account and returns a token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name":     "New Writer",
			"email":    "writer@example.com",
			"password": strongPassword,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Token string            `json:"token"`
			User  models.PublicUser `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "writer@example.com", body.User.Email)

		var user models.User
		require.NoError(t, db.Where("email = ?", "writer@example.com").First(&user).Error)
		assert.Equal(t, models.RolePoster, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, strongPassword, user.Password, "password must be stored hashed")
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name":     "Second Writer",
			"email":    "writer@example.com",
			"password": strongPassword,
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("weak password", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"name":     "Weak",
			"email":    "weak@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"email": "nobody@example.com",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSignup_RegistrationDisabled(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Setting{
		Key:   models.SettingAllowRegistration,
		Value: "false",
	}).Error)

	resp := doRequest(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name":     "Blocked",
		"email":    "blocked@example.com",
		"password": strongPassword,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Registration is currently disabled", body.Error)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	_, app, db := newTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(strongPassword), bcrypt.MinCost)
	require.NoError(t, err)
	testutil.CreateUser(t, db, func(u *models.User) {
		u.Email = "login@example.com"
		u.Password = string(hash)
	})
	testutil.CreateUser(t, db, func(u *models.User) {
		u.Email = "inactive@example.com"
		u.Password = string(hash)
		u.IsActive = false
	})

	t.Run("valid credentials", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "login@example.com",
			"password": strongPassword,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "login@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "ghost@example.com",
			"password": strongPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deactivated account", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "inactive@example.com",
			"password": strongPassword,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "Account is deactivated", body.Error)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user := testutil.CreateUser(t, db)

	// Without Redis the jti cannot be blacklisted; logout still succeeds.
	resp := doRequest(t, app, http.MethodPost, "/api/auth/logout", tokenFor(t, s, user), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	s, app, db := newTestServer(t)
	user := testutil.CreateUser(t, db)

	t.Run("missing token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token", func(t *testing.T) {
		resp := doRequest(t, app, http.MethodGet, "/api/users/me", tokenFor(t, s, user), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
