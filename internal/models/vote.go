package models

import "time"

// Vote records that a user has upvoted a post. The (PostID, UserID) pair is
// the primary key, so the database itself rejects a second vote from the
// same user on the same post. A vote has no direction column; existence of
// the row is the vote.
type Vote struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Post Post `gorm:"foreignKey:PostID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
