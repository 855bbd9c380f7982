package shared

import "context"

type sessionKey struct{}

// ContextWithSession attaches the browser session to ctx.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFromContext returns the session attached by the session middleware,
// or nil outside of it.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey{}).(*Session)
	return sess
}

// SessionID returns the ID of the attached session. Mounted views and the
// export rate limiter are keyed by it.
func SessionID(ctx context.Context) (string, bool) {
	sess := SessionFromContext(ctx)
	if sess == nil || sess.ID == "" {
		return "", false
	}
	return sess.ID, true
}
