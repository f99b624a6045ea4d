package shared

// shared types across the application
// 1st: auth claims structure for JWT authentication in the HTTP API
// 2nd: add more shared types as needed

type AuthClaims struct {
	UserID   string `json:"user_id"`  // user identifier(UUID)
	Username string `json:"username"` // username
	Email    string `json:"email"`    // account email, doubles as the liker identity
}
