package models

import "time"

// Authority represents a government body responsible for a class of issues.
type Authority struct {
	AuthorityID uint       `gorm:"primaryKey;column:authority_id" json:"authority_id"`
	Name        string     `gorm:"column:name" json:"name"`
	Description string     `gorm:"column:description" json:"description"`
	Email       *string    `gorm:"column:email" json:"email,omitempty"`
	Icon        string     `gorm:"column:icon" json:"icon"`
	Color       string     `gorm:"column:color" json:"color"`
	CreateAt    time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"-"`

	// Relations
	Categories []Category `gorm:"foreignKey:AuthorityID" json:"categories,omitempty"`
}

func (Authority) TableName() string { return "authorities" }

// HasEmail reports whether the authority can receive notifications.
func (a *Authority) HasEmail() bool {
	return a.Email != nil && *a.Email != ""
}
