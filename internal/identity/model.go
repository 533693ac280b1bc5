// Package identity holds the user account model and its repository. The
// repository doubles as the identity store for authentication: token
// subjects are user IDs.
package identity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/skillsenselab/prodman/internal/auth"
	"github.com/skillsenselab/prodman/internal/database"
)

// User statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// RoleList stores a set of role names as a JSON array in a text column,
// portable across postgres and sqlite.
type RoleList []string

// Value implements driver.Valuer.
func (r RoleList) Value() (driver.Value, error) {
	if r == nil {
		r = RoleList{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("identity: marshal roles: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *RoleList) Scan(value any) error {
	if value == nil {
		*r = RoleList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("identity: cannot scan %T into RoleList", value)
	}
	return json.Unmarshal(data, r)
}

// User is the stored account record. The password digest is never
// serialized into API responses.
type User struct {
	database.BaseModel
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string   `gorm:"size:32" json:"phone,omitempty"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Status       string   `gorm:"size:20;not null;default:active" json:"status"`
	Roles        RoleList `gorm:"type:text;not null" json:"roles"`
	AvatarURL    string   `gorm:"size:512" json:"avatar_url,omitempty"`
}

// ToIdentity converts the stored record into the auth package's identity
// view. The subject is the user's UUID.
func (u *User) ToIdentity() *auth.Identity {
	return &auth.Identity{
		Subject:      u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		Status:       u.Status,
		Roles:        []string(u.Roles),
		PasswordHash: u.PasswordHash,
	}
}
