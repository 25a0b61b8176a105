package viewmodels

type Dashboard struct {
	BaseViewModel
	IsAdmin bool
}
