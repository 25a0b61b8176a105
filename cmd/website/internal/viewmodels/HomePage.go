package viewmodels

import "html/template"

type HomePage struct {
	BaseViewModel
	Hero   template.HTML
	Photos []GalleryPhoto
}

type GalleryPhoto struct {
	Picture      template.HTML
	OriginalPath string
	FileName     string
}
