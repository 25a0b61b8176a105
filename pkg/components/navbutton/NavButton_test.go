package navbutton

import (
	"testing"

	"github.com/adampresley/heroportal/pkg/components/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{name: "home default", config: Config{Variant: Home}, want: "Main Menu"},
		{name: "back default", config: Config{Variant: Back}, want: "Back"},
		{name: "override", config: Config{Variant: Back, Text: "Return"}, want: "Return"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.config))
		})
	}
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "home", Icon(Home))
	assert.Equal(t, "arrow-left", Icon(Back))
}

func TestActivateAlwaysNavigatesToRoot(t *testing.T) {
	for _, variant := range []Variant{Home, Back} {
		var paths []string

		nav := navigation.NavigatorFunc(func(path string) {
			paths = append(paths, path)
		})

		Config{Variant: variant}.Activate(nav)

		assert.Equal(t, []string{"/"}, paths, "variant %s", variant)
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant(" Back ")
	require.NoError(t, err)
	assert.Equal(t, Back, v)

	_, err = ParseVariant("sideways")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestRender(t *testing.T) {
	got := string(Render(Config{Variant: Back, Text: "<b>Go</b>"}))

	assert.Contains(t, got, `href="/navigate/back"`)
	assert.Contains(t, got, `icon-arrow-left`)
	assert.Contains(t, got, `&lt;b&gt;Go&lt;/b&gt;`)
	assert.NotContains(t, got, "<b>")
}

func TestRenderUnknownVariantFallsBackToHome(t *testing.T) {
	got := string(Render(Config{Variant: "nope"}))

	assert.Contains(t, got, `href="/navigate/home"`)
	assert.Contains(t, got, "Main Menu")
}
