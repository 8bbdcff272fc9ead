package models

import "time"

// Category is a type of civic issue, owned by exactly one authority.
type Category struct {
	CategoryID      uint      `gorm:"primaryKey;column:category_id" json:"category_id"`
	AuthorityID     uint      `gorm:"column:authority_id" json:"authority_id"`
	Name            string    `gorm:"column:name" json:"name"`
	Description     string    `gorm:"column:description" json:"description"`
	Icon            string    `gorm:"column:icon" json:"icon"`
	DefaultSeverity int       `gorm:"column:default_severity" json:"default_severity"`
	CreateAt        time.Time `gorm:"column:create_at" json:"create_at"`

	// Relations
	Authority Authority `gorm:"foreignKey:AuthorityID;references:AuthorityID" json:"authority,omitempty"`
}

func (Category) TableName() string { return "categories" }
