package domain

// Role is the authorization role of a user
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered account.
// Password holds the encoded password hash, never the plaintext.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"-" db:"password"`
	Role     Role   `json:"role" db:"role"`
}

// NewUser carries the fields of a user to create. An empty Role means RoleUser.
type NewUser struct {
	Username string
	Password string
	Role     Role
}
