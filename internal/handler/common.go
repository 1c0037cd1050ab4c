package handler

import "github.com/labstack/echo/v4"

// claimUint reads a numeric JWT claim previously stored in the context by
// the auth middleware.  Claims parsed from JSON arrive as float64.
func claimUint(c echo.Context, key string) (uint64, bool) {
	switch v := c.Get(key).(type) {
	case float64:
		if v < 1 {
			return 0, false
		}
		return uint64(v), true
	case uint64:
		return v, v != 0
	case int64:
		if v < 1 {
			return 0, false
		}
		return uint64(v), true
	}
	return 0, false
}

// studentID extracts the candidate identity from a student token.
func studentID(c echo.Context) (uint64, bool) {
	return claimUint(c, "student_id")
}
