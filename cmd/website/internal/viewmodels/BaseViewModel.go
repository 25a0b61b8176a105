package viewmodels

import (
	"html/template"
	"net/http"

	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/heroportal/pkg/components/accessgate"
	"github.com/adampresley/heroportal/pkg/models"
)

type BaseViewModel struct {
	Message            string
	IsError            bool
	IsWarning          bool
	IsHtmx             bool
	JavascriptIncludes []rendering.JavascriptInclude
	NavButton          template.HTML
	Principal          *models.Principal
}

/*
GetPrincipalFromContext returns the principal the access gate stored on
the request, or an empty principal on ungated routes.
*/
func GetPrincipalFromContext(r *http.Request) *models.Principal {
	if result, ok := accessgate.PrincipalFromContext(r.Context()); ok {
		return result
	}

	return &models.Principal{}
}
