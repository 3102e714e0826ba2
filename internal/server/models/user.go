// Package models holds the server's persisted entities.
package models

import (
	"time"

	"github.com/citycare/citycare/internal/common"
)

type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash []byte
	Salt         []byte
	Role         common.Role
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool { return u.Role == common.RoleAdmin }
