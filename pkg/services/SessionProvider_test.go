package services

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adampresley/heroportal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	principal *models.Principal
	err       error
}

func (f fakeSessionStore) Get(r *http.Request) (*models.Principal, error) {
	return f.principal, f.err
}

type fakePrincipalService struct {
	PrincipalServicer
	byID map[uint]*models.Principal
}

func (f fakePrincipalService) GetByID(id uint) (*models.Principal, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}

	return nil, models.ErrPrincipalNotFound
}

func TestSessionProvider(t *testing.T) {
	stored := &models.Principal{BaseModel: models.BaseModel{ID: 7}, Role: models.RoleAdmin}
	cookie := &models.Principal{BaseModel: models.BaseModel{ID: 7}, Role: models.RoleUser}
	principals := fakePrincipalService{byID: map[uint]*models.Principal{7: stored}}
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("loading until ready", func(t *testing.T) {
		provider := NewSessionProvider(SessionProviderConfig{
			PrincipalService: principals,
			SessionStore:     fakeSessionStore{principal: cookie},
		})

		session := provider.Session(r)
		assert.True(t, session.IsLoading)
		assert.Nil(t, session.User)
	})

	t.Run("reloads principal from store", func(t *testing.T) {
		provider := NewSessionProvider(SessionProviderConfig{
			PrincipalService: principals,
			SessionStore:     fakeSessionStore{principal: cookie},
		})
		provider.MarkReady()

		session := provider.Session(r)
		require.NotNil(t, session.User)
		assert.False(t, session.IsLoading)
		assert.Equal(t, models.RoleAdmin, session.User.Role)
	})

	t.Run("no cookie", func(t *testing.T) {
		provider := NewSessionProvider(SessionProviderConfig{
			PrincipalService: principals,
			SessionStore:     fakeSessionStore{err: fmt.Errorf("no session")},
		})
		provider.MarkReady()

		assert.Equal(t, models.Session{}, provider.Session(r))
	})

	t.Run("principal deleted", func(t *testing.T) {
		provider := NewSessionProvider(SessionProviderConfig{
			PrincipalService: principals,
			SessionStore:     fakeSessionStore{principal: &models.Principal{BaseModel: models.BaseModel{ID: 99}}},
		})
		provider.MarkReady()

		assert.Equal(t, models.Session{}, provider.Session(r))
	})
}
