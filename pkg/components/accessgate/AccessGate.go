package accessgate

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/heroportal/pkg/components/navigation"
	"github.com/adampresley/heroportal/pkg/models"
)

const (
	DefaultLandingPath = "/dashboard"
	HeroVideoPath      = "/hero-video.mp4"
	defaultRetryAfter  = 2
)

//go:embed templates
var templateFS embed.FS

var views = template.Must(template.ParseFS(templateFS, "templates/*.html"))

/*
SessionProvider supplies the session for the current request. The gate
never mutates it.
*/
type SessionProvider interface {
	Session(r *http.Request) models.Session
}

type GateConfig struct {
	LandingPath string
	RetryAfter  int
}

/*
Gate renders content conditionally on a session. It holds configuration
only, so one Gate can serve every route.
*/
type Gate struct {
	landingPath string
	retryAfter  int
}

func NewGate(config GateConfig) Gate {
	if config.LandingPath == "" {
		config.LandingPath = DefaultLandingPath
	}

	if config.RetryAfter <= 0 {
		config.RetryAfter = defaultRetryAfter
	}

	return Gate{
		landingPath: config.LandingPath,
		retryAfter:  config.RetryAfter,
	}
}

func (g Gate) LandingPath() string {
	return g.landingPath
}

/*
AffordancePath is where the single recovery control of a denial view
leads. Loading and Authorized have no affordance.
*/
func (g Gate) AffordancePath(state State) string {
	switch state {
	case Unauthenticated:
		return navigation.RootPath
	case RoleMismatch:
		return g.landingPath
	}

	return ""
}

type viewData struct {
	AffordancePath string
	RequestPath    string
	RequiredRole   string
	RetryAfter     int
	VideoPath      string
}

/*
Render returns the markup for the session's state. Children are returned
unchanged when authorized and never rendered otherwise.
*/
func (g Gate) Render(session models.Session, requiredRole *models.Role, children template.HTML) template.HTML {
	state := Evaluate(session, requiredRole)

	if state == Authorized {
		return children
	}

	markup, err := g.renderState(state, requiredRole, "")
	if err != nil {
		slog.Error("error rendering access gate", "state", state, "error", err)
		return ""
	}

	return markup
}

func (g Gate) renderState(state State, requiredRole *models.Role, requestPath string) (template.HTML, error) {
	var (
		buf  bytes.Buffer
		name string
	)

	data := viewData{
		AffordancePath: g.AffordancePath(state),
		RequestPath:    requestPath,
		RetryAfter:     g.retryAfter,
		VideoPath:      HeroVideoPath,
	}

	if requiredRole != nil {
		data.RequiredRole = requiredRole.String()
	}

	switch state {
	case Loading:
		name = "loading"
	case Unauthenticated:
		name = "denied"
	case RoleMismatch:
		name = "insufficient"
	default:
		return "", fmt.Errorf("no view for state %s", state)
	}

	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("error executing '%s' view: %w", name, err)
	}

	return template.HTML(buf.String()), nil
}

var pageTitles = map[State]string{
	Loading:         "Loading",
	Unauthenticated: "Access Denied",
	RoleMismatch:    "Insufficient Permissions",
}

/*
wrapPage places a state view inside a standalone document for full page
loads. htmx requests get the bare fragment.
*/
func (g Gate) wrapPage(state State, body template.HTML) (template.HTML, error) {
	var (
		buf bytes.Buffer
	)

	data := struct {
		Title   string
		Refresh int
		Body    template.HTML
	}{
		Title: pageTitles[state],
		Body:  body,
	}

	if state == Loading {
		data.Refresh = g.retryAfter
	}

	if err := views.ExecuteTemplate(&buf, "page", data); err != nil {
		return "", fmt.Errorf("error executing page view: %w", err)
	}

	return template.HTML(buf.String()), nil
}

/*
Middleware applies the gate to a route. Authorized requests continue with
the principal stored in the request context. The other states answer the
request directly: 200 with a Retry-After header while loading, 401 when
unauthenticated and 403 on a role mismatch. htmx requests always get 200
and a retarget to the body.
*/
func (g Gate) Middleware(provider SessionProvider, requiredRole *models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := provider.Session(r)
			state := Evaluate(session, requiredRole)

			if state == Authorized {
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), session.User)))
				return
			}

			status := http.StatusOK

			switch state {
			case Loading:
				w.Header().Set("Retry-After", strconv.Itoa(g.retryAfter))
			case Unauthenticated:
				status = http.StatusUnauthorized
			case RoleMismatch:
				status = http.StatusForbidden
				slog.Info("principal lacks required role", "path", r.URL.Path, "principalID", session.User.ID, "role", session.User.Role, "requiredRole", requiredRole.String())
			}

			isHtmx := httphelpers.IsHtmx(r)
			requestPath := ""

			if isHtmx {
				requestPath = r.URL.RequestURI()
			}

			markup, err := g.renderState(state, requiredRole, requestPath)
			if err != nil {
				slog.Error("error rendering access gate", "state", state, "path", r.URL.Path, "error", err)
				http.Error(w, http.StatusText(status), status)
				return
			}

			if isHtmx {
				/*
				 * htmx drops 4xx responses by default, so boosted requests
				 * get a 200 that replaces the whole body.
				 */
				status = http.StatusOK
				w.Header().Set("HX-Retarget", "body")
				w.Header().Set("HX-Reswap", "innerHTML")
			} else {
				if markup, err = g.wrapPage(state, markup); err != nil {
					slog.Error("error rendering access gate page", "state", state, "path", r.URL.Path, "error", err)
					http.Error(w, http.StatusText(status), status)
					return
				}
			}

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(markup))
		})
	}
}
