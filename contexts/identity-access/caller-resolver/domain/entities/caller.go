package entities

// Caller is a resolved platform identity.
type Caller struct {
	UserID      string
	DisplayName string
}
