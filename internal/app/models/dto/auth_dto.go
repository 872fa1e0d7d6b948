package dto

// Signup messages shown to clients
const (
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidEmail        = "Invalid email format"
	MsgPasswordTooShort    = "Password must be at least 6 characters"
)

// SignupRequest represents a registration request
type SignupRequest struct {
	FullName string `json:"fullName" example:"John Doe"`
	Email    string `json:"email" binding:"required,email" example:"john@example.com"`
	Phone    string `json:"phone" example:"+8801700000000"`
	Password string `json:"password" binding:"required,min=6" example:"password123"`
}

// SigninRequest represents login credentials. It carries no binding tags so
// that every rejection stays "Invalid credentials".
type SigninRequest struct {
	Email    string `json:"email" example:"john@example.com"`
	Password string `json:"password" example:"password123"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType" example:"Bearer"`
	ExpiresIn int64  `json:"expiresIn" example:"86400"`
}
