package seed

import (
	"time"

	id "gesclient/pkg/domain"
)

// Role is a named set of permissions for back-office users.
type Role struct {
	ID          id.ID
	Libelle     string
	Description string
}

// User is a back-office account. PasswordHash is a bcrypt hash.
type User struct {
	ID           id.ID
	Nom          string
	Prenom       string
	Email        string
	PasswordHash string
	RoleID       id.ID
	CreatedAt    time.Time
}
