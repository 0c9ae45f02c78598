package model

// Credentials is the login form payload.
type Credentials struct {
	Username string `json:"username" validate:"required" label:"Username"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// LoginResult is the backend response to a successful credential exchange.
type LoginResult struct {
	AccessToken        string `json:"access_token"`
	TokenType          string `json:"token_type"`
	MustChangePassword bool   `json:"must_change_password"`
}

// MinPasswordLength is the shortest new password accepted by the change-password flow.
const MinPasswordLength = 6

// PasswordChange is the change-password form. Confirm never leaves this server.
type PasswordChange struct {
	Current string `json:"current_password" validate:"required"       label:"Current password"`
	New     string `json:"new_password"     validate:"required,min=6" label:"Password"`
	Confirm string `json:"-"`
}

// ProfileUpdate is the profile form payload.
type ProfileUpdate struct {
	Username string `json:"username"  validate:"required,max=64"  label:"Username"`
	FullName string `json:"full_name" validate:"required,max=255" label:"Full name"`
}
