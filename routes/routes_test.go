package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/artsfest/handlers"
	"github.com/Dosada05/artsfest/middleware"
	"github.com/Dosada05/artsfest/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

// Обработчики, кроме health, не создаются: запросы должны отсекаться middleware раньше.
func newTestRouter(t *testing.T) (*chi.Mux, *middleware.Authenticator) {
	t.Helper()
	auth := middleware.NewAuthenticator("secret", time.Hour)
	router := chi.NewRouter()
	SetupRoutes(router, Handlers{Health: handlers.NewHealthHandler(okPinger{})}, auth, []string{"*"})
	return router, auth
}

func TestRouteAccess(t *testing.T) {
	router, auth := newTestRouter(t)
	leaderTeam := 1
	leader, err := auth.IssueToken(&models.User{ID: 2, Role: models.RoleTeamLeader, TeamID: &leaderTeam})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"ping is public", http.MethodGet, "/api/ping", "", http.StatusOK},
		{"keep-alive is public", http.MethodGet, "/api/keep-alive", "", http.StatusOK},
		{"students need auth", http.MethodGet, "/api/students", "", http.StatusUnauthorized},
		{"leader cannot set penalty", http.MethodPut, "/api/teams/1/penalty", leader, http.StatusForbidden},
		{"leader cannot record results", http.MethodPut, "/api/participations/1/result", leader, http.StatusForbidden},
		{"leader cannot export", http.MethodGet, "/api/exports/standings.xlsx", leader, http.StatusForbidden},
		{"garbage token on public route", http.MethodGet, "/api/standings/teams", "garbage", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/nothing-here", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `api_request_duration_seconds_count{method="GET",path="/api/ping",status="200"}`)
}
