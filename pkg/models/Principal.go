package models

import (
	"fmt"
)

var (
	ErrPrincipalNotFound  = fmt.Errorf("principal not found")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
)

/*
Principal is an authenticated user record. The access gate only ever
looks at Role.
*/
type Principal struct {
	BaseModel

	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	Role         Role   `db:"role"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
