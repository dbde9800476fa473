package entities

// User is the account record returned by the backend on login and registration.
// The password never travels back.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// DisplayName falls back to the email when the backend has no full name.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
