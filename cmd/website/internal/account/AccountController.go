package account

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/heroportal/cmd/website/internal/viewmodels"
	"github.com/adampresley/heroportal/pkg/components/navbutton"
	"github.com/adampresley/heroportal/pkg/models"
	"github.com/adampresley/heroportal/pkg/services"
)

type AccountHandlers interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	LoginAction(w http.ResponseWriter, r *http.Request)
	LogoutAction(w http.ResponseWriter, r *http.Request)
}

type AccountControllerConfig struct {
	LandingPath      string
	PrincipalService services.PrincipalServicer
	Renderer         rendering.TemplateRenderer
	SessionService   sessions.Session[*models.Principal]
}

type AccountController struct {
	landingPath      string
	principalService services.PrincipalServicer
	renderer         rendering.TemplateRenderer
	sessionService   sessions.Session[*models.Principal]
}

func NewAccountController(config AccountControllerConfig) AccountController {
	return AccountController{
		landingPath:      config.LandingPath,
		principalService: config.PrincipalService,
		renderer:         config.Renderer,
		sessionService:   config.SessionService,
	}
}

/*
GET /login
*/
func (c AccountController) LoginPage(w http.ResponseWriter, r *http.Request) {
	viewData := viewmodels.Login{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:    httphelpers.IsHtmx(r),
			NavButton: navbutton.Render(navbutton.Config{Variant: navbutton.Home}),
		},
	}

	c.renderer.Render("pages/account/login", viewData, w)
}

/*
POST /login
*/
func (c AccountController) LoginAction(w http.ResponseWriter, r *http.Request) {
	var (
		err       error
		principal *models.Principal
	)

	pageName := "pages/account/login"

	viewData := viewmodels.Login{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:    httphelpers.IsHtmx(r),
			NavButton: navbutton.Render(navbutton.Config{Variant: navbutton.Home}),
		},
		Email: httphelpers.GetFromRequest[string](r, "email"),
	}

	password := httphelpers.GetFromRequest[string](r, "password")
	principal, err = c.principalService.Authenticate(viewData.Email, password)

	if errors.Is(err, models.ErrInvalidCredentials) {
		viewData.IsWarning = true
		viewData.Message = "Your email or password was not correct. Please try again."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	if err != nil {
		slog.Error("error authenticating principal", "error", err, "email", viewData.Email)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please reach out for assistance."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	/*
	 * Only the identity goes into the cookie. The session provider reloads
	 * the principal on every request.
	 */
	cookiePrincipal := &models.Principal{
		BaseModel: models.BaseModel{ID: principal.ID},
		Email:     principal.Email,
		Name:      principal.Name,
		Role:      principal.Role,
	}

	if err = c.sessionService.Set(r, cookiePrincipal); err != nil {
		slog.Error("error setting principal session", "error", err)
	}

	if err = c.sessionService.Save(w, r); err != nil {
		slog.Error("error saving session", "error", err)
	}

	slog.Info("principal logged in", "principalID", principal.ID, "role", principal.Role)
	http.Redirect(w, r, c.landingPath, http.StatusFound)
}

/*
GET /logout
*/
func (c AccountController) LogoutAction(w http.ResponseWriter, r *http.Request) {
	_ = c.sessionService.Destroy(w, r)
	_ = c.sessionService.Save(w, r)
	http.Redirect(w, r, "/login", http.StatusFound)
}
