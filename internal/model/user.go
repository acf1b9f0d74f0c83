package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a back-office account. The password column always holds a
// bcrypt hash and is omitted from JSON responses.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FirstName string         `gorm:"size:255" json:"first_name"`
	LastName  string         `gorm:"size:255" json:"last_name"`
	Username  string         `gorm:"size:255;uniqueIndex;not null" json:"username"`
	// Nullable so accounts without an email never collide on the unique
	// index; an empty string would.
	Email     *string        `gorm:"size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Phone1    string         `gorm:"size:50" json:"phone1"`
	Phone2    string         `gorm:"size:50" json:"phone2"`
	RoleID    *uint          `gorm:"index" json:"role_id"`
	Role      *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsAdmin   bool           `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RefreshToken is one link of a user's rotation chain. The ID is the opaque
// token_id embedded in the signed refresh JWT; rotation marks the presented
// record revoked and inserts a fresh one. Revoked records are kept, never
// deleted, so a replayed token can be told apart from a forged one.
type RefreshToken struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"size:1024;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"not null;default:false;index" json:"revoked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
