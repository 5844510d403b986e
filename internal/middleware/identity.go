package middleware

// identity.go holds the identity helper shared by the rate limiter and
// cache key builders.  Unlike the handlers, these run on public routes
// too, so they fall back to "anon" instead of failing.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user's ID for cache and
// limiter keys.  JWT numeric claims arrive as float64; unauthenticated
// requests map to "anon".
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
