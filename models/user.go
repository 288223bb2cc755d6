package models

import "gorm.io/gorm"

// User represents a user in the system
type User struct {
	gorm.Model
	Auth0ID  string    `gorm:"uniqueIndex;not null;size:100"`
	Nickname string    `gorm:"size:100"`
	Projects []Project `gorm:"foreignKey:UserID" json:"-"`
}
