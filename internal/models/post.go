package models

import (
	"time"

	"gorm.io/gorm"
)

type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"not null" json:"content"`
	Published bool   `gorm:"not null;default:true" json:"published"`
	UserID    uint   `gorm:"not null" json:"owner_id"`
	User      User   `gorm:"foreignKey:UserID" json:"owner"`
	// VotesCount is not persisted; computed at query time
	VotesCount int            `gorm:"->;-:migration" json:"votes"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
