package model

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by the login endpoint. On failure the server
// fills Error (and some deployments Message) instead of the token fields.
type AuthResponse struct {
	Token    string `json:"token,omitempty"`
	Username string `json:"username,omitempty"`
	Role     Role   `json:"role,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Reason returns the server-provided failure text, if any.
func (a *AuthResponse) Reason() string {
	if a.Message != "" {
		return a.Message
	}
	return a.Error
}
