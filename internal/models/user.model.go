package models

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleRadiographer Role = "RADIOGRAPHER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleRadiographer:
		return true
	}
	return false
}

type Language string

const (
	LanguageMS Language = "MS" // Bahasa Melayu
	LanguageEN Language = "EN"
)

// User identity. Username is the sole key; password is compared on login and
// stripped before any listing leaves the server.
type User struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`
}

// Sanitized returns a copy safe to hand to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
