package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxAdminID   contextKey = "admin_id"
	ctxRole      contextKey = "admin_role"
	ctxRequestID contextKey = "request_id"
)

// AdminIDFromContext returns the authenticated admin, or uuid.Nil.
func AdminIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxAdminID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// RoleFromContext returns the role claim of the authenticated admin.
func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// WithAdminID injects the admin identifier into the context.
func WithAdminID(ctx context.Context, adminID uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdminID, adminID)
}
