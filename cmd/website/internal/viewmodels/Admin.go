package viewmodels

import "github.com/adampresley/heroportal/pkg/models"

type Admin struct {
	BaseViewModel
	Principals []models.Principal
}
