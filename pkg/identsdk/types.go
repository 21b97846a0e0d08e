package identsdk

// Request and response types shared by the HTTP handlers and the SDK client.
// Keeping them in one package guarantees the two sides cannot drift.

// RegisterRequest is the body for POST /api/v1/users/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /api/v1/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogoutRequest is the body for POST /api/v1/users/logout.
type LogoutRequest struct {
	Email string `json:"email"`
}

// UserInfo is the public view of a user. The password hash is never part of
// any response.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserResponse wraps a successful register or login result.
type UserResponse struct {
	Message string   `json:"message"`
	User    UserInfo `json:"user"`
}

// MessageResponse is a bare acknowledgment, returned by logout.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error payload for all failure responses.
type ErrorResponse struct {
	Message string `json:"message"`
}

// HealthResponse is returned by the /livez and /readyz endpoints (readyz
// includes the Checks field).
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}
