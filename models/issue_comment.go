package models

import "time"

// MaxCommentLength is the longest accepted comment, in characters.
const MaxCommentLength = 500

// IssueComment is a free-text remark on an issue. Append-only.
type IssueComment struct {
	CommentID uint      `gorm:"primaryKey;column:comment_id" json:"comment_id"`
	IssueID   uint      `gorm:"column:issue_id" json:"issue_id"`
	UserID    uint      `gorm:"column:user_id" json:"user_id"`
	Content   string    `gorm:"column:content;size:500" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

func (IssueComment) TableName() string { return "issue_comments" }
