package auth

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
// Username also accepts an email address; the service falls back to an
// email lookup when no username matches.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshTokenDTO for refresh token requests
type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordDTO for authenticated password changes
type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

// Validate checks required fields and returns a ValidationError on failure.
func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return ValidationError{Msg: "username is required"}
	}
	if d.Password == "" {
		return ValidationError{Msg: "password is required"}
	}
	return nil
}

// Validate for refresh token DTO
func (d RefreshTokenDTO) Validate() error {
	if d.RefreshToken == "" {
		return ValidationError{Msg: "refreshToken is required"}
	}
	return nil
}

// Validate for password change DTO
func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
		return ValidationError{Msg: "currentPassword is required"}
	}
	if d.NewPassword == "" {
		return ValidationError{Msg: "newPassword is required"}
	}
	if len(d.NewPassword) < 8 {
		return ValidationError{Msg: "newPassword must be at least 8 characters"}
	}
	return nil
}
