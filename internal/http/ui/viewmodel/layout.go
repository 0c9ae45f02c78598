package viewmodel

// User represents the signed-in user exposed to templates.
type User struct {
	Username    string
	DisplayName string
	Avatar      string
	Role        string
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	CanManageUsers  bool
	User            *User
}

// LayoutProvider exposes layout metadata for renderer utilities.
type LayoutProvider interface {
	LayoutData() *Layout
}
