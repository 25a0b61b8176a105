package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var ErrInvalidRole = fmt.Errorf("invalid role")

func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrInvalidRole, value)
}

func (r Role) String() string {
	return string(r)
}

// RolePtr is a convenience for call sites that pass an optional required role.
func RolePtr(r Role) *Role {
	return &r
}
