package navigation

import (
	"net/http"

	"github.com/adampresley/adamgokit/httphelpers"
)

const (
	RootPath = "/"
)

/*
Navigator performs a navigation side effect. Nothing is returned because
no caller inspects the outcome.
*/
type Navigator interface {
	NavigateTo(path string)
}

/*
NavigatorFunc adapts a plain function to the Navigator interface.
*/
type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) {
	f(path)
}

/*
HTTPNavigator navigates by answering the current request. Regular requests
get a 302 redirect. htmx requests get an HX-Redirect header so the browser
swaps the whole page instead of a fragment.
*/
type HTTPNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func NewHTTPNavigator(w http.ResponseWriter, r *http.Request) HTTPNavigator {
	return HTTPNavigator{
		w: w,
		r: r,
	}
}

func (n HTTPNavigator) NavigateTo(path string) {
	if httphelpers.IsHtmx(n.r) {
		n.w.Header().Set("HX-Redirect", path)
		n.w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(n.w, n.r, path, http.StatusFound)
}
