package models

import "time"

// User is a citizen account.
type User struct {
	UserID   uint       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username string     `gorm:"column:username" json:"username"`
	Email    string     `gorm:"column:email" json:"email"`
	Password string     `gorm:"column:password" json:"-"`
	CreateAt time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"-"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"-"`
}

func (User) TableName() string { return "users" }

// UserProfile tracks per-citizen engagement counters. Created lazily on the
// first report or confirmation; counters only ever increase.
type UserProfile struct {
	ProfileID          uint   `gorm:"primaryKey;column:profile_id" json:"profile_id"`
	UserID             uint   `gorm:"column:user_id;uniqueIndex" json:"user_id"`
	Phone              string `gorm:"column:phone" json:"phone"`
	Area               string `gorm:"column:area" json:"area"`
	ReportsCount       int    `gorm:"column:reports_count" json:"reports_count"`
	ConfirmationsCount int    `gorm:"column:confirmations_count" json:"confirmations_count"`
}

func (UserProfile) TableName() string { return "user_profiles" }
