package accessgate

import (
	"github.com/adampresley/heroportal/pkg/models"
)

type State int

const (
	Loading State = iota
	Unauthenticated
	RoleMismatch
	Authorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case RoleMismatch:
		return "role-mismatch"
	case Authorized:
		return "authorized"
	}

	return "unknown"
}

/*
Evaluate classifies a session against an optional required role. The
checks run in a fixed order and the first match wins:

 1. the session is still loading
 2. there is no principal
 3. a role is required and the principal's role differs
 4. otherwise the request is authorized
*/
func Evaluate(session models.Session, requiredRole *models.Role) State {
	switch {
	case session.IsLoading:
		return Loading
	case session.User == nil:
		return Unauthenticated
	case requiredRole != nil && session.User.Role != *requiredRole:
		return RoleMismatch
	default:
		return Authorized
	}
}
