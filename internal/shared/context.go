package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// CurrentUserID returns the logged-in user ID from the request context,
// or false when the session is anonymous.
func CurrentUserID(ctx context.Context) (string, bool) {
	sess := SessionFromContext(ctx)
	if sess == nil || sess.User() == "" {
		return "", false
	}
	return sess.User(), true
}
