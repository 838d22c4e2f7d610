package models

// Profile is the identity bootstrap returned by the profile endpoint.
type Profile struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type ProfileUpdate struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,e164"`
}

type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128,nefield=CurrentPassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// Deposit is a top-up of the local Entitlement Balance.
type Deposit struct {
	Points int64 `validate:"gt=0,lte=1000000"`
}

// DocumentUpload describes a file submitted to the upload endpoint.
type DocumentUpload struct {
	Title       string `validate:"required,max=255"`
	Description string `validate:"max=2000"`
	Path        string `validate:"required,file"`
	IsPremium   bool
	Score       int64 `validate:"gte=0"`
	CategoryID  string
	AuthorID    string
}
