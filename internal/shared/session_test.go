package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "energydash_session", "secret", time.Hour, false)
}

func roundTrip(t *testing.T, sm *SessionManager, cookie *http.Cookie, mutate func(*Session)) (*Session, *http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	if mutate != nil {
		mutate(sess)
	}
	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rr, sess))
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	return sess, cookies[0]
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	sm := newTestManager(t)

	first, cookie := roundTrip(t, sm, nil, func(s *Session) { s.Set("theme", "dark") })
	assert.True(t, cookie.HttpOnly)
	assert.True(t, strings.HasPrefix(cookie.Value, first.ID+"."))

	second, _ := roundTrip(t, sm, cookie, nil)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "dark", second.Get("theme"))
	assert.False(t, second.IsNew())
}

func TestFlashSurvivesOneRedirect(t *testing.T) {
	sm := newTestManager(t)
	_, cookie := roundTrip(t, sm, nil, func(s *Session) {
		s.AddFlash(FlashMessage{Kind: "error", Message: "Año no disponible"})
	})

	var popped *FlashMessage
	roundTrip(t, sm, cookie, func(s *Session) { popped = s.PopFlash() })
	require.NotNil(t, popped)
	assert.Equal(t, "Año no disponible", popped.Message)

	roundTrip(t, sm, cookie, func(s *Session) { popped = s.PopFlash() })
	assert.Nil(t, popped)
}

func TestMalformedCookieStartsNewSession(t *testing.T) {
	sm := newTestManager(t)
	sess, cookie := roundTrip(t, sm, &http.Cookie{Name: "energydash_session", Value: "../../etc"}, nil)
	assert.NotEqual(t, "../../etc", sess.ID)
	assert.True(t, strings.HasPrefix(cookie.Value, sess.ID+"."))
}

func TestTamperedCookieStartsNewSession(t *testing.T) {
	sm := newTestManager(t)
	first, cookie := roundTrip(t, sm, nil, func(s *Session) { s.Set("theme", "dark") })

	forged := &http.Cookie{Name: cookie.Name, Value: first.ID + ".AAAA"}
	second, _ := roundTrip(t, sm, forged, nil)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, second.Get("theme"))

	other := NewSessionManager(sm.client, "energydash_session", "other-secret", time.Hour, false)
	third, _ := roundTrip(t, other, cookie, nil)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestDestroyExpiresCookie(t *testing.T) {
	sm := newTestManager(t)
	_, cookie := roundTrip(t, sm, nil, nil)
	_, expired := roundTrip(t, sm, cookie, sm.Destroy)
	assert.Equal(t, -1, expired.MaxAge)
}

func TestCSRFTokens(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := newSession()

	token, err := m.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	again, err := m.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	assert.NoError(t, m.VerifyToken(context.Background(), sess, token))
	assert.ErrorIs(t, m.VerifyToken(context.Background(), sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.VerifyToken(context.Background(), sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.VerifyToken(context.Background(), nil, token), ErrCSRFTokenMissing)

	_, err = m.EnsureToken(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSessionMissing)
}

func TestSessionContext(t *testing.T) {
	sess := newSession()
	ctx := ContextWithSession(context.Background(), sess)
	assert.Same(t, sess, SessionFromContext(ctx))
	assert.Nil(t, SessionFromContext(context.Background()))
}

func TestSessionIDFromContext(t *testing.T) {
	sess := newSession()
	id, ok := SessionID(ContextWithSession(context.Background(), sess))
	assert.True(t, ok)
	assert.Equal(t, sess.ID, id)

	_, ok = SessionID(context.Background())
	assert.False(t, ok)
}
