// authenticationhandler/validation.go

package authenticationhandler

import (
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
)

// IsValidClientID checks if the provided client ID is a valid UUID, the form Jamf Pro issues.
// Returns true if valid, along with an empty error message; otherwise, returns false with an error message.
func IsValidClientID(clientID string) (bool, string) {
	if _, err := uuid.Parse(clientID); err != nil || len(clientID) != 36 {
		return false, "Client ID is not a valid UUID format."
	}
	return true, ""
}

// IsValidBasicToken checks that a pre-encoded basic token decodes to "username:password".
func IsValidBasicToken(basicToken string) (bool, string) {
	decoded, err := base64.StdEncoding.DecodeString(basicToken)
	if err != nil {
		return false, "Basic token is not valid base64."
	}
	if user, _, ok := strings.Cut(string(decoded), ":"); !ok || user == "" {
		return false, "Basic token must encode username:password."
	}
	return true, ""
}
