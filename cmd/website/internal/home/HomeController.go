package home

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/s3/geturloptions"
	"github.com/adampresley/adamgokit/s3/listoptions"
	"github.com/adampresley/heroportal/cmd/website/internal/viewmodels"
	"github.com/adampresley/heroportal/pkg/components/adaptiveimage"
)

const (
	heroVideoURLExpiration = time.Hour
)

type HomeHandlers interface {
	HeroVideo(w http.ResponseWriter, r *http.Request)
	HomePage(w http.ResponseWriter, r *http.Request)
}

type HomeControllerConfig struct {
	AwsBucket          string
	GalleryPhotoFolder string
	HeroImageSrc       string
	HeroVideoKey       string
	ImageCDNBaseURL    string
	Renderer           rendering.TemplateRenderer
	S3Client           s3.S3Client
}

type HomeController struct {
	awsBucket          string
	galleryPhotoFolder string
	heroImageSrc       string
	heroVideoKey       string
	imageCDNBaseURL    string
	renderer           rendering.TemplateRenderer
	s3Client           s3.S3Client
}

func NewHomeController(config HomeControllerConfig) HomeController {
	return HomeController{
		awsBucket:          config.AwsBucket,
		galleryPhotoFolder: config.GalleryPhotoFolder,
		heroImageSrc:       config.HeroImageSrc,
		heroVideoKey:       config.HeroVideoKey,
		imageCDNBaseURL:    config.ImageCDNBaseURL,
		renderer:           config.Renderer,
		s3Client:           config.S3Client,
	}
}

/*
GET /
*/
func (c HomeController) HomePage(w http.ResponseWriter, r *http.Request) {
	c.renderer.Render("pages/home", c.BuildHomePage(r), w)
}

func (c HomeController) BuildHomePage(r *http.Request) viewmodels.HomePage {
	viewData := viewmodels.HomePage{
		BaseViewModel: viewmodels.BaseViewModel{
			Message:            "",
			IsHtmx:             httphelpers.IsHtmx(r),
			JavascriptIncludes: []rendering.JavascriptInclude{},
		},
		Hero: adaptiveimage.Render(adaptiveimage.Props{
			Src:      c.heroImageSrc,
			Alt:      "Featured photograph",
			Priority: true,
			Class:    "hero",
		}),
		Photos: []viewmodels.GalleryPhoto{},
	}

	thumbnails, err := c.s3Client.List(
		c.awsBucket,
		fmt.Sprintf("%s/thumbnail", c.galleryPhotoFolder),
		listoptions.WithGetUrls(),
	)

	if err != nil {
		slog.Error("error listing objects in S3 bucket", "error", err, "bucket", c.awsBucket, "prefix", c.galleryPhotoFolder)
		viewData.IsError = true
		viewData.Message = "There was a problem getting photos for this page."
		return viewData
	}

	originals, err := c.s3Client.List(
		c.awsBucket,
		fmt.Sprintf("%s/original", c.galleryPhotoFolder),
		listoptions.WithGetUrls(),
	)

	if err != nil {
		slog.Error("error listing objects in S3 bucket", "error", err, "bucket", c.awsBucket, "prefix", c.galleryPhotoFolder)
		viewData.IsError = true
		viewData.Message = "There was a problem getting photos for this page."
		return viewData
	}

	originalsByName := map[string]s3.Object{}

	for _, obj := range originals.Objects {
		originalsByName[filepath.Base(obj.Key)] = obj
	}

	for _, obj := range thumbnails.Objects {
		fileName := filepath.Base(obj.Key)
		original, ok := originalsByName[fileName]

		if !ok {
			slog.Warn("gallery thumbnail has no original", "key", obj.Key)
			continue
		}

		viewData.Photos = append(viewData.Photos, viewmodels.GalleryPhoto{
			Picture: adaptiveimage.Render(adaptiveimage.Props{
				Src:     ImageURL(c.imageCDNBaseURL, obj),
				Alt:     fileName,
				Loading: "lazy",
			}),
			FileName:     fileName,
			OriginalPath: ImageURL(c.imageCDNBaseURL, original),
		})
	}

	return viewData
}

/*
GET /hero-video.mp4

Redirects to a presigned S3 URL. S3 answers the byte-range requests
Safari needs before it will play a video.
*/
func (c HomeController) HeroVideo(w http.ResponseWriter, r *http.Request) {
	u, err := c.s3Client.GetUrl(
		c.awsBucket,
		c.heroVideoKey,
		geturloptions.WithExpiration(heroVideoURLExpiration),
	)

	if err != nil {
		slog.Error("error getting hero video URL from S3", "error", err, "bucket", c.awsBucket, "key", c.heroVideoKey)
		httphelpers.WriteText(w, http.StatusNotFound, "Video not found")
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=300")
	http.Redirect(w, r, u, http.StatusFound)
}

/*
ImageURL picks the URL a gallery object is served from. With a CDN base
configured the object key is appended to it, which gives the adaptive
image an /upload/ URL it can derive formats from. Otherwise the S3 URL is
used as is.
*/
func ImageURL(cdnBaseURL string, obj s3.Object) string {
	if cdnBaseURL == "" {
		return obj.Url
	}

	return strings.TrimSuffix(cdnBaseURL, "/") + "/" + strings.TrimPrefix(obj.Key, "/")
}
