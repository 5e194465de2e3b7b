package account

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pulsehq/pulse/pkg/auth"
)

// userPayload is the public representation of a user in API responses.
type userPayload struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Bio       string     `json:"bio,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func newUserPayload(user *auth.User, withCreatedAt bool) userPayload {
	p := userPayload{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Bio:   user.Bio,
	}
	if withCreatedAt {
		createdAt := user.CreatedAt
		p.CreatedAt = &createdAt
	}
	return p
}

// authResponse is returned on successful registration and login. The session
// token travels in the body, never in a cookie.
type authResponse struct {
	Message      string      `json:"message"`
	SessionToken string      `json:"sessionToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	User         userPayload `json:"user"`
}

type userResponse struct {
	User userPayload `json:"user"`
}

type logoutAllResponse struct {
	Message         string `json:"message"`
	SessionsCleared int64  `json:"sessionsCleared"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}
