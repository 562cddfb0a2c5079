package middleware

import "github.com/labstack/echo/v4"

// UserID returns the authenticated user's id, or "" when JWTAuth did not
// run for this request.
func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

// Role returns the authenticated user's role, or "".
func Role(c echo.Context) string {
	s, _ := c.Get(ctxRole).(string)
	return s
}

// requester identifies the caller for rate-limit keys; unauthenticated
// callers share "anon".
func requester(c echo.Context) string {
	if id := UserID(c); id != "" {
		return id
	}
	return "anon"
}
