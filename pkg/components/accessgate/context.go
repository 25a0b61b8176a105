package accessgate

import (
	"context"

	"github.com/adampresley/heroportal/pkg/models"
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	if principal == nil {
		return ctx
	}

	return context.WithValue(ctx, principalKey{}, principal)
}

func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	if p, ok := ctx.Value(principalKey{}).(*models.Principal); ok && p != nil {
		return p, true
	}

	return nil, false
}
