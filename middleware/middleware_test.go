package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/artsfest/models"
	"github.com/Dosada05/artsfest/services"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorEcho(t *testing.T, got *services.Actor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		require.NoError(t, err)
		*got = actor
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate(t *testing.T) {
	auth := NewAuthenticator("secret", time.Hour)
	teamID := 4
	token, err := auth.IssueToken(&models.User{ID: 9, Role: models.RoleTeamLeader, TeamID: &teamID})
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 9, "role": "admin", "exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	foreign, err := NewAuthenticator("other", time.Hour).IssueToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Token " + token, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actor services.Actor
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			auth.Authenticate(actorEcho(t, &actor)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, 9, actor.UserID)
				assert.Equal(t, models.RoleTeamLeader, actor.Role)
				require.NotNil(t, actor.TeamID)
				assert.Equal(t, 4, *actor.TeamID)
			}
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	auth := NewAuthenticator("secret", time.Hour)

	var actor services.Actor
	rec := httptest.NewRecorder()
	auth.OptionalAuthenticate(actorEcho(t, &actor)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, actor.UserID)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	auth.OptionalAuthenticate(actorEcho(t, &actor)).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthorize(t *testing.T) {
	auth := NewAuthenticator("secret", time.Hour)
	adminToken, err := auth.IssueToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	leaderToken, err := auth.IssueToken(&models.User{ID: 2, Role: models.RoleTeamLeader})
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	adminOnly := auth.Authenticate(Authorize(models.RoleAdmin)(ok))

	for token, want := range map[string]int{adminToken: http.StatusOK, leaderToken: http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		adminOnly.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}

	rec := httptest.NewRecorder()
	Authorize(models.RoleAdmin)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no claims in context")
}
