package utils

import (
	"net/http"

	"studioerp/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		return ""
	}
	return userID
}

// GetBranchFromRequest returns the branch the caller's token is bound to, or
// "" when the token carries none.
func GetBranchFromRequest(r *http.Request) string {
	branch, _ := r.Context().Value(globals.BranchKey).(string)
	return branch
}
