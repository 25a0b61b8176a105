package services

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/adampresley/heroportal/pkg/models"
)

/*
PrincipalSessionReader reads the principal stored in the request's
session cookie. The adamgokit session wrapper satisfies it.
*/
type PrincipalSessionReader interface {
	Get(r *http.Request) (*models.Principal, error)
}

type SessionProviderConfig struct {
	PrincipalService PrincipalServicer
	SessionStore     PrincipalSessionReader
}

/*
SessionProvider builds a models.Session for each request. Until MarkReady
is called every session reports IsLoading. Afterwards the cookie principal
is reloaded from the store so role changes take effect immediately. Any
failure along the way yields a session without a user.
*/
type SessionProvider struct {
	principalService PrincipalServicer
	sessionStore     PrincipalSessionReader
	ready            *atomic.Bool
}

func NewSessionProvider(config SessionProviderConfig) SessionProvider {
	return SessionProvider{
		principalService: config.PrincipalService,
		sessionStore:     config.SessionStore,
		ready:            &atomic.Bool{},
	}
}

func (p SessionProvider) MarkReady() {
	p.ready.Store(true)
}

func (p SessionProvider) IsReady() bool {
	return p.ready.Load()
}

func (p SessionProvider) Session(r *http.Request) models.Session {
	var (
		err       error
		cookie    *models.Principal
		principal *models.Principal
	)

	if !p.IsReady() {
		return models.Session{IsLoading: true}
	}

	if cookie, err = p.sessionStore.Get(r); err != nil || cookie == nil {
		return models.Session{}
	}

	if principal, err = p.principalService.GetByID(cookie.ID); err != nil {
		slog.Warn("session principal could not be resolved", "principalID", cookie.ID, "error", err)
		return models.Session{}
	}

	return models.Session{User: principal}
}
