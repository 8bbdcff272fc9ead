package models

import "time"

// AuthorityUser links one account to exactly one authority and governs
// authority-side access. Inactive links grant nothing.
type AuthorityUser struct {
	AuthorityUserID uint      `gorm:"primaryKey;column:authority_user_id" json:"authority_user_id"`
	UserID          uint      `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	AuthorityID     uint      `gorm:"column:authority_id;index" json:"authority_id"`
	IsActive        bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	Authority Authority `gorm:"foreignKey:AuthorityID;references:AuthorityID" json:"authority,omitempty"`
}

func (AuthorityUser) TableName() string { return "authority_users" }
