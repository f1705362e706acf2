package core

import "context"

type contextKey string

const ctxKeySessionID contextKey = "session_id"

// ContextWithSessionID adds the editor session id to ctx.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySessionID, id)
}

// SessionIDFromContext extracts the session id added by ContextWithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return v
	}
	return ""
}
