package models

// User represents a dashboard operator account
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"` // admin, user
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// UserInput is the create payload. Password is never read back.
type UserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
}

// UserUpdate omits Password unless a new one was typed.
type UserUpdate struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	IsActive bool    `json:"is_active"`
	Password *string `json:"password,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
