package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/adampresley/heroportal/pkg/models"
	_ "github.com/glebarez/sqlite"
	"github.com/rfberaldo/sqlz"
	"github.com/rfberaldo/sqlz/binds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registerBinds sync.Once

func newTestDB(t *testing.T) *sqlz.DB {
	t.Helper()

	registerBinds.Do(func() {
		binds.Register("sqlite", binds.BindByDriver("sqlite3"))
	})

	db, err := sqlz.Connect("sqlite", "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	_, err = db.Exec(context.Background(), `
CREATE TABLE principals (
   id INTEGER PRIMARY KEY AUTOINCREMENT,
   created_at DATETIME NOT NULL,
   updated_at DATETIME NOT NULL,
   deleted_at DATETIME NULL,
   email TEXT NOT NULL UNIQUE,
   name TEXT NOT NULL,
   password_hash TEXT NOT NULL,
   role TEXT NOT NULL
)`)
	require.NoError(t, err)

	return db
}

func TestPrincipalServiceCreateAndAuthenticate(t *testing.T) {
	service := NewPrincipalService(PrincipalServiceConfig{DB: newTestDB(t)})

	created, err := service.Create("Admin@Example.com ", "Admin", "s3cret", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", created.Email)
	assert.Equal(t, models.RoleAdmin, created.Role)
	assert.NotEqual(t, "s3cret", created.PasswordHash)

	got, err := service.Authenticate("admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = service.Authenticate("admin@example.com", "wrong")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = service.Authenticate("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestPrincipalServiceLookups(t *testing.T) {
	service := NewPrincipalService(PrincipalServiceConfig{DB: newTestDB(t)})

	require.NoError(t, service.Ping())

	bob, err := service.Create("bob@example.com", "Bob", "pw", models.RoleUser)
	require.NoError(t, err)
	_, err = service.Create("alice@example.com", "Alice", "pw", models.RoleAdmin)
	require.NoError(t, err)

	byID, err := service.GetByID(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", byID.Name)

	_, err = service.GetByID(12345)
	assert.ErrorIs(t, err, models.ErrPrincipalNotFound)

	all, err := service.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alice", all[0].Name)
	assert.Equal(t, "Bob", all[1].Name)
}

func TestPrincipalServiceCreateRejectsUnknownRole(t *testing.T) {
	service := NewPrincipalService(PrincipalServiceConfig{DB: newTestDB(t)})

	_, err := service.Create("x@example.com", "X", "pw", models.Role("owner"))
	assert.ErrorIs(t, err, models.ErrInvalidRole)
}
