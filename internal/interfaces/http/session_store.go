package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/vendorflow/vendorflow-api/internal/application/session"
)

var _ session.Store = (*cookieStore)(nil)

// cookieStore adapts a request's cookies to the resolver's Store port. The
// legacy storage keys the frontend used become cookie names here.
type cookieStore struct {
	c *fiber.Ctx
}

// NewCookieStore wraps the request context as a session store.
func NewCookieStore(c *fiber.Ctx) session.Store {
	return &cookieStore{c: c}
}

// Ready is always true for an HTTP request: cookies arrived with it.
func (s *cookieStore) Ready() bool { return true }

// Get returns the raw payload under the cookie name. Values are stored
// URL-escaped (JSON is not cookie-safe); an unescape failure falls back to
// the raw value and lets the resolver decide whether it parses.
func (s *cookieStore) Get(key string) (string, bool) {
	raw := s.c.Cookies(key)
	if raw == "" {
		return "", false
	}
	if unescaped, err := url.QueryUnescape(raw); err == nil {
		return unescaped, true
	}
	return raw, true
}
