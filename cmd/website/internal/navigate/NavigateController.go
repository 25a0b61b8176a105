package navigate

import (
	"log/slog"
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/heroportal/pkg/components/navbutton"
	"github.com/adampresley/heroportal/pkg/components/navigation"
)

type NavigateHandlers interface {
	Activate(w http.ResponseWriter, r *http.Request)
}

type NavigateController struct{}

func NewNavigateController() NavigateController {
	return NavigateController{}
}

/*
GET /navigate/{variant}
*/
func (c NavigateController) Activate(w http.ResponseWriter, r *http.Request) {
	variant, err := navbutton.ParseVariant(httphelpers.GetFromRequest[string](r, "variant"))

	if err != nil {
		slog.Warn("unknown navigation button variant", "error", err, "path", r.URL.Path)
		variant = navbutton.Home
	}

	navbutton.Config{Variant: variant}.Activate(navigation.NewHTTPNavigator(w, r))
}
