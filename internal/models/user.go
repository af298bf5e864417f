package models

// User is the signed-in account as reported by the service.
type User struct {
	Email    string
	FullName string
}

// DisplayName returns the name to greet the user with
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// Profile is the long-term memory the service keeps about a user.
// Facts are the profile text split into individual remembered items.
type Profile struct {
	Text  string
	Facts []string
}

// HasFacts reports whether the service has remembered anything yet
func (p Profile) HasFacts() bool {
	return len(p.Facts) > 0
}
