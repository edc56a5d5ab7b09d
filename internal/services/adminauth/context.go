package adminauth

import (
	"context"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
)

type sessionContextKey struct{}

func WithSession(ctx context.Context, session model.AdminSession) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

func SessionFromContext(ctx context.Context) (model.AdminSession, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(model.AdminSession)
	return session, ok && session.SID != ""
}
