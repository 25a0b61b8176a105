package adaptiveimage

import (
	"bytes"
	"html/template"
	"log/slog"
	"path"
	"strings"
)

const (
	uploadSegment = "/upload/"
	webpDirective = "f_webp,q_auto/"
	avifDirective = "f_avif,q_auto/"
)

/*
Sources holds the URLs derived from a single image source. WebP and AVIF
are empty when the source is an absolute URL the CDN cannot transform.
*/
type Sources struct {
	Original string
	WebP     string
	AVIF     string
}

func (s Sources) HasVariants() bool {
	return s.WebP != "" && s.AVIF != ""
}

type Props struct {
	Src      string
	Alt      string
	Loading  string
	Priority bool
	Class    string
}

/*
Derive computes the format alternatives for src.

Absolute http(s) URLs are treated as CDN URLs: the format directives are
inserted right after the first "/upload/" segment. Absolute URLs without
that segment are left alone and get no alternatives. Everything else is a
local path whose extension is swapped for .webp and .avif, assuming the
sibling files exist. An empty src has no alternatives.

Derived URLs end up in srcset, where whitespace and commas separate
candidates, so those characters are percent-encoded in the path.
*/
func Derive(src string) Sources {
	result := Sources{
		Original: src,
	}

	if strings.TrimSpace(src) == "" {
		return result
	}

	if isAbsolute(src) {
		index := strings.Index(src, uploadSegment)
		if index < 0 {
			return result
		}

		head := src[:index+len(uploadSegment)]
		tail := encodeSrcset(src[index+len(uploadSegment):])

		result.WebP = head + webpDirective + tail
		result.AVIF = head + avifDirective + tail
		return result
	}

	result.WebP = replaceExtension(src, ".webp")
	result.AVIF = replaceExtension(src, ".avif")
	return result
}

func isAbsolute(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

var srcsetReplacer = strings.NewReplacer(
	" ", "%20",
	",", "%2C",
	"\t", "%09",
	"\n", "%0A",
	"\r", "%0D",
	"\f", "%0C",
)

func encodeSrcset(value string) string {
	return srcsetReplacer.Replace(value)
}

func replaceExtension(src, ext string) string {
	p, suffix := src, ""

	if i := strings.IndexAny(src, "?#"); i >= 0 {
		p, suffix = src[:i], src[i:]
	}

	current := path.Ext(p)

	// A dotfile like ".hidden" has no extension.
	if current == path.Base(p) {
		current = ""
	}

	return encodeSrcset(strings.TrimSuffix(p, current) + ext + suffix)
}

var pictureTemplate = template.Must(template.New("picture").Parse(`<picture{{if .Class}} class="{{.Class}}"{{end}}>` +
	`{{if .Sources.HasVariants}}<source type="image/avif" srcset="{{.Sources.AVIF}}"><source type="image/webp" srcset="{{.Sources.WebP}}">{{end}}` +
	`<img src="{{.Sources.Original}}" alt="{{.Alt}}" loading="{{.Loading}}" decoding="async"{{if .Priority}} fetchpriority="high"{{end}}>` +
	`</picture>`))

/*
Render writes a picture element with AVIF first, WebP second and the
original as the img fallback. The browser falls through to the original
when a derived source does not resolve.
*/
func Render(props Props) template.HTML {
	var (
		buf bytes.Buffer
	)

	loading := props.Loading
	if props.Priority {
		loading = "eager"
	}

	if loading != "eager" {
		loading = "lazy"
	}

	data := struct {
		Sources  Sources
		Alt      string
		Loading  string
		Priority bool
		Class    string
	}{
		Sources:  Derive(props.Src),
		Alt:      props.Alt,
		Loading:  loading,
		Priority: props.Priority,
		Class:    props.Class,
	}

	if err := pictureTemplate.Execute(&buf, data); err != nil {
		slog.Error("error rendering adaptive image", "src", props.Src, "error", err)
		return ""
	}

	return template.HTML(buf.String())
}
