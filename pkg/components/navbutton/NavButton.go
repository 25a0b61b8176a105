package navbutton

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/adampresley/heroportal/pkg/components/navigation"
)

type Variant string

const (
	Home Variant = "home"
	Back Variant = "back"
)

var ErrUnknownVariant = fmt.Errorf("unknown button variant")

type Config struct {
	Variant Variant
	Text    string
}

type presentation struct {
	icon  string
	label string
}

var variants = map[Variant]presentation{
	Home: {icon: "home", label: "Main Menu"},
	Back: {icon: "arrow-left", label: "Back"},
}

func ParseVariant(value string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(value)))

	if _, ok := variants[v]; !ok {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownVariant, value)
	}

	return v, nil
}

/*
Label returns the override text when one is given, otherwise the default
label for the variant.
*/
func Label(config Config) string {
	if config.Text != "" {
		return config.Text
	}

	return variants[normalize(config.Variant)].label
}

func Icon(variant Variant) string {
	return variants[normalize(variant)].icon
}

/*
Activate performs the button's side effect. Every variant goes to the
application root.
*/
func (c Config) Activate(nav navigation.Navigator) {
	nav.NavigateTo(navigation.RootPath)
}

/*
ActivationPath is the endpoint the rendered control points at.
*/
func ActivationPath(variant Variant) string {
	return "/navigate/" + string(normalize(variant))
}

var buttonTemplate = template.Must(template.New("navbutton").Parse(`<a class="nav-button nav-button-{{.Variant}}" href="{{.Href}}" hx-get="{{.Href}}" role="button"><i class="icon icon-{{.Icon}}" aria-hidden="true"></i><span>{{.Label}}</span></a>`))

func Render(config Config) template.HTML {
	var (
		buf bytes.Buffer
	)

	variant := normalize(config.Variant)

	data := map[string]string{
		"Variant": string(variant),
		"Href":    ActivationPath(variant),
		"Icon":    Icon(variant),
		"Label":   Label(config),
	}

	if err := buttonTemplate.Execute(&buf, data); err != nil {
		slog.Error("error rendering navigation button", "variant", variant, "error", err)
		return ""
	}

	return template.HTML(buf.String())
}

// Unknown variants fall back to home.
func normalize(variant Variant) Variant {
	if _, ok := variants[variant]; ok {
		return variant
	}

	return Home
}
