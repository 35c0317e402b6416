package models

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse holds the response from the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AdminUser is the authenticated administrator principal.
type AdminUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// SessionStatus is the lifecycle state of the client session.
type SessionStatus string

const (
	StatusAnonymous      SessionStatus = "anonymous"
	StatusAuthenticating SessionStatus = "authenticating"
	StatusAuthenticated  SessionStatus = "authenticated"
	StatusInvalid        SessionStatus = "invalid"
)

// Session is the process-wide session value. status is Authenticated iff
// both Token and Actor are set and the last validation succeeded.
type Session struct {
	Token  string        `json:"token,omitempty"`
	Actor  *AdminUser    `json:"actor,omitempty"`
	Status SessionStatus `json:"status"`
}
