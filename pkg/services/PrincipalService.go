package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adampresley/heroportal/pkg/models"
	"github.com/rfberaldo/sqlz"
	"golang.org/x/crypto/bcrypt"
)

type PrincipalServicer interface {
	Authenticate(email, password string) (*models.Principal, error)
	Create(email, name, password string, role models.Role) (*models.Principal, error)
	GetAll() ([]models.Principal, error)
	GetByEmail(email string) (*models.Principal, error)
	GetByID(id uint) (*models.Principal, error)
	Ping() error
}

type PrincipalServiceConfig struct {
	DB *sqlz.DB
}

type PrincipalService struct {
	db *sqlz.DB
}

func NewPrincipalService(config PrincipalServiceConfig) PrincipalService {
	return PrincipalService{
		db: config.DB,
	}
}

/*
Authenticate returns the principal for email when password matches its
hash. Unknown emails and wrong passwords both yield ErrInvalidCredentials.
*/
func (s PrincipalService) Authenticate(email, password string) (*models.Principal, error) {
	var (
		err       error
		principal *models.Principal
	)

	if principal, err = s.GetByEmail(email); err != nil {
		if errors.Is(err, models.ErrPrincipalNotFound) {
			return nil, models.ErrInvalidCredentials
		}

		return nil, err
	}

	if err = bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return principal, nil
}

func (s PrincipalService) Create(email, name, password string, role models.Role) (*models.Principal, error) {
	var (
		err  error
		hash []byte
	)

	if _, err = models.ParseRole(string(role)); err != nil {
		return nil, err
	}

	if hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err != nil {
		return nil, fmt.Errorf("error hashing password for '%s': %w", email, err)
	}

	sql := `
INSERT INTO principals (
   created_at
   , updated_at
   , email
   , name
   , password_hash
   , role
) VALUES (?, ?, ?, ?, ?, ?)
`

	now := time.Now().UTC()
	params := []any{now, now, normalizeEmail(email), name, string(hash), string(role)}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return nil, fmt.Errorf("error inserting principal '%s': %w", email, err)
	}

	return s.GetByEmail(email)
}

func (s PrincipalService) GetAll() ([]models.Principal, error) {
	var (
		err        error
		principals []models.Principal
	)

	sql := `
SELECT
   p.id
   , p.created_at
   , p.updated_at
   , p.deleted_at
   , p.email
   , p.name
   , p.password_hash
   , p.role
FROM principals AS p
WHERE 1=1
   AND p.deleted_at IS NULL
ORDER BY p.name
`

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &principals, sql); err != nil {
		return nil, fmt.Errorf("error querying for all principals: %w", err)
	}

	return principals, nil
}

func (s PrincipalService) GetByEmail(email string) (*models.Principal, error) {
	return s.getOne("p.email=?", normalizeEmail(email))
}

func (s PrincipalService) GetByID(id uint) (*models.Principal, error) {
	return s.getOne("p.id=?", id)
}

/*
Ping runs a trivial query so startup can tell when the store is usable.
*/
func (s PrincipalService) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, "SELECT 1 FROM principals LIMIT 1"); err != nil {
		return fmt.Errorf("error pinging principal store: %w", err)
	}

	return nil
}

func (s PrincipalService) getOne(where string, param any) (*models.Principal, error) {
	var (
		err error
	)

	result := &models.Principal{}

	sql := `
SELECT
   p.id
   , p.created_at
   , p.updated_at
   , p.deleted_at
   , p.email
   , p.name
   , p.password_hash
   , p.role
FROM principals AS p
WHERE 1=1
   AND p.deleted_at IS NULL
   AND ` + where

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, result, sql, param); err != nil {
		if sqlz.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", models.ErrPrincipalNotFound, param)
		}

		return nil, fmt.Errorf("error querying for principal: %w", err)
	}

	return result, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
