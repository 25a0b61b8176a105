package dashboard

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/heroportal/cmd/website/internal/viewmodels"
	"github.com/adampresley/heroportal/pkg/components/navbutton"
)

type DashboardHandlers interface {
	DashboardPage(w http.ResponseWriter, r *http.Request)
}

type DashboardControllerConfig struct {
	Renderer rendering.TemplateRenderer
}

type DashboardController struct {
	renderer rendering.TemplateRenderer
}

func NewDashboardController(config DashboardControllerConfig) DashboardController {
	return DashboardController{
		renderer: config.Renderer,
	}
}

/*
GET /dashboard
*/
func (c DashboardController) DashboardPage(w http.ResponseWriter, r *http.Request) {
	c.renderer.Render("pages/dashboard", BuildDashboard(r), w)
}

func BuildDashboard(r *http.Request) viewmodels.Dashboard {
	principal := viewmodels.GetPrincipalFromContext(r)

	return viewmodels.Dashboard{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:    httphelpers.IsHtmx(r),
			NavButton: navbutton.Render(navbutton.Config{Variant: navbutton.Back}),
			Principal: principal,
		},
		IsAdmin: principal.IsAdmin(),
	}
}
