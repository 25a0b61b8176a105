package admin

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/heroportal/cmd/website/internal/viewmodels"
	"github.com/adampresley/heroportal/pkg/components/navbutton"
	"github.com/adampresley/heroportal/pkg/models"
	"github.com/adampresley/heroportal/pkg/services"
)

type AdminHandlers interface {
	PrincipalListPage(w http.ResponseWriter, r *http.Request)
}

type AdminControllerConfig struct {
	PrincipalService services.PrincipalServicer
	Renderer         rendering.TemplateRenderer
}

type AdminController struct {
	principalService services.PrincipalServicer
	renderer         rendering.TemplateRenderer
}

func NewAdminController(config AdminControllerConfig) AdminController {
	return AdminController{
		principalService: config.PrincipalService,
		renderer:         config.Renderer,
	}
}

/*
GET /admin
*/
func (c AdminController) PrincipalListPage(w http.ResponseWriter, r *http.Request) {
	var (
		err        error
		principals []models.Principal
	)

	pageName := "pages/admin/principals"

	viewData := viewmodels.Admin{
		BaseViewModel: viewmodels.BaseViewModel{
			IsHtmx:    httphelpers.IsHtmx(r),
			NavButton: navbutton.Render(navbutton.Config{Variant: navbutton.Back, Text: "Back to Home"}),
			Principal: viewmodels.GetPrincipalFromContext(r),
		},
		Principals: []models.Principal{},
	}

	if principals, err = c.principalService.GetAll(); err != nil {
		slog.Error("error getting principal list", "error", err)
		viewData.IsError = true
		viewData.Message = "An unexpected error occurred. Please reach out for assistance."

		c.renderer.Render(pageName, viewData, w)
		return
	}

	viewData.Principals = principals
	c.renderer.Render(pageName, viewData, w)
}
