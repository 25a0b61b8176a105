package accessgate

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/heroportal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = &models.Principal{BaseModel: models.BaseModel{ID: 1}, Email: "admin@example.com", Role: models.RoleAdmin}
	user  = &models.Principal{BaseModel: models.BaseModel{ID: 2}, Email: "user@example.com", Role: models.RoleUser}
)

func TestEvaluate(t *testing.T) {
	adminRole := models.RolePtr(models.RoleAdmin)
	userRole := models.RolePtr(models.RoleUser)

	tests := []struct {
		name     string
		session  models.Session
		required *models.Role
		want     State
	}{
		{name: "loading without user", session: models.Session{IsLoading: true}, want: Loading},
		{name: "loading wins over user", session: models.Session{IsLoading: true, User: admin}, want: Loading},
		{name: "loading wins over role mismatch", session: models.Session{IsLoading: true, User: user}, required: adminRole, want: Loading},
		{name: "no user", session: models.Session{}, want: Unauthenticated},
		{name: "no user with role", session: models.Session{}, required: adminRole, want: Unauthenticated},
		{name: "role mismatch", session: models.Session{User: user}, required: adminRole, want: RoleMismatch},
		{name: "admin is not user", session: models.Session{User: admin}, required: userRole, want: RoleMismatch},
		{name: "role match", session: models.Session{User: admin}, required: adminRole, want: Authorized},
		{name: "no role required", session: models.Session{User: user}, want: Authorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.session, tt.required))
		})
	}
}

func TestRenderBranches(t *testing.T) {
	gate := NewGate(GateConfig{})
	children := template.HTML(`<div id="secret">children</div>`)
	adminRole := models.RolePtr(models.RoleAdmin)

	loading := string(gate.Render(models.Session{IsLoading: true, User: admin}, nil, children))
	assert.Contains(t, loading, "access-gate-loading")
	assert.NotContains(t, loading, "secret")
	assert.NotContains(t, loading, "<video")

	denied := string(gate.Render(models.Session{}, nil, children))
	assert.Contains(t, denied, "Access Denied")
	assert.Contains(t, denied, `href="/"`)
	assert.Contains(t, denied, `src="/hero-video.mp4"`)
	assert.Contains(t, denied, "autoplay loop muted")
	assert.Contains(t, denied, "access-gate-overlay")
	assert.NotContains(t, denied, "secret")

	insufficient := string(gate.Render(models.Session{User: user}, adminRole, children))
	assert.Contains(t, insufficient, "Insufficient Permissions")
	assert.Contains(t, insufficient, `href="/dashboard"`)
	assert.Contains(t, insufficient, ">Continue</a>")
	assert.NotContains(t, insufficient, "Dashboard")
	assert.Contains(t, insufficient, `src="/hero-video.mp4"`)
	assert.NotContains(t, insufficient, "secret")

	assert.Equal(t, children, gate.Render(models.Session{User: admin}, adminRole, children))
	assert.Equal(t, children, gate.Render(models.Session{User: user}, nil, children))
}

func TestAffordancePath(t *testing.T) {
	gate := NewGate(GateConfig{LandingPath: "/home"})

	assert.Equal(t, "/", gate.AffordancePath(Unauthenticated))
	assert.Equal(t, "/home", gate.AffordancePath(RoleMismatch))
	assert.Empty(t, gate.AffordancePath(Loading))
	assert.Empty(t, gate.AffordancePath(Authorized))
}

type stubProvider struct {
	session models.Session
}

func (p stubProvider) Session(r *http.Request) models.Session {
	return p.session
}

func TestMiddleware(t *testing.T) {
	adminRole := models.RolePtr(models.RoleAdmin)

	tests := []struct {
		name       string
		session    models.Session
		required   *models.Role
		wantStatus int
		wantNext   bool
		wantBody   string
	}{
		{name: "loading", session: models.Session{IsLoading: true}, wantStatus: http.StatusOK, wantBody: "Loading"},
		{name: "unauthenticated", session: models.Session{}, required: adminRole, wantStatus: http.StatusUnauthorized, wantBody: "Access Denied"},
		{name: "role mismatch", session: models.Session{User: user}, required: adminRole, wantStatus: http.StatusForbidden, wantBody: "Insufficient Permissions"},
		{name: "authorized", session: models.Session{User: admin}, required: adminRole, wantStatus: http.StatusOK, wantNext: true, wantBody: "next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true

				p, ok := PrincipalFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, tt.session.User, p)

				_, _ = w.Write([]byte("next"))
			})

			handler := NewGate(GateConfig{}).Middleware(stubProvider{session: tt.session}, tt.required)(next)

			r := httptest.NewRequest(http.MethodGet, "/admin", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestMiddlewareLoadingSetsRetryAfterAndRefresh(t *testing.T) {
	handler := NewGate(GateConfig{RetryAfter: 5}).Middleware(stubProvider{session: models.Session{IsLoading: true}}, nil)(http.NotFoundHandler())

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, "5", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, w.Body.String(), `http-equiv="refresh" content="5"`)
}

func TestMiddlewareHtmxDenialsAreSwappable(t *testing.T) {
	adminRole := models.RolePtr(models.RoleAdmin)

	tests := []struct {
		name     string
		session  models.Session
		wantBody string
	}{
		{name: "unauthenticated", session: models.Session{}, wantBody: "access-gate-denied"},
		{name: "role mismatch", session: models.Session{User: user}, wantBody: "access-gate-insufficient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewGate(GateConfig{}).Middleware(stubProvider{session: tt.session}, adminRole)(http.NotFoundHandler())

			r := httptest.NewRequest(http.MethodGet, "/admin", nil)
			r.Header.Set("HX-Request", "true")
			r.Header.Set("HX-Boosted", "true")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "body", w.Header().Get("HX-Retarget"))
			assert.Equal(t, "innerHTML", w.Header().Get("HX-Reswap"))
			assert.NotContains(t, w.Body.String(), "<!DOCTYPE html>")
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestMiddlewareHtmxLoadingPollsRequestPath(t *testing.T) {
	handler := NewGate(GateConfig{RetryAfter: 3}).Middleware(stubProvider{session: models.Session{IsLoading: true}}, nil)(http.NotFoundHandler())

	r := httptest.NewRequest(http.MethodGet, "/dashboard?tab=1", nil)
	r.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body", w.Header().Get("HX-Retarget"))
	assert.Contains(t, w.Body.String(), `hx-get="/dashboard?tab=1"`)
	assert.Contains(t, w.Body.String(), `load delay:3s`)
}
