package models

/*
Session is the per-request view of authentication state. It is built by
the session provider and only read by the components. A failed principal
lookup is represented as User == nil.
*/
type Session struct {
	User      *Principal
	IsLoading bool
}

func (s Session) IsAuthenticated() bool {
	return !s.IsLoading && s.User != nil
}
