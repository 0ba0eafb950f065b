package auth

import "golang.org/x/crypto/bcrypt"

type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleStandard  Role = "standard"
)

// User is one entry in the user file. Password holds a bcrypt hash,
// never the plaintext.
type User struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Role      Role     `json:"role"`
	Databases []string `json:"databases,omitempty"`
}

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (u *User) IsSuperuser() bool {
	return u.Role == RoleSuperuser
}

// CanOpenDB reports whether the user may open the named database.
// Superusers may open anything.
func (u *User) CanOpenDB(db string) bool {
	if u.IsSuperuser() {
		return true
	}
	for _, name := range u.Databases {
		if name == db {
			return true
		}
	}
	return false
}
