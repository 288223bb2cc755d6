package models

import "time"

// QuizQuestion is produced by the model and only held by the client.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// QuizAttempt records the score a user reached on a quiz generated for a
// project file.
type QuizAttempt struct {
	ID             uint      `gorm:"primaryKey"`
	PublicID       string    `gorm:"size:40;uniqueIndex"`
	UserID         uint      `gorm:"not null;index"`
	User           User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ProjectID      uint      `gorm:"not null;index"`
	Project        Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FilePath       string    `gorm:"size:500"`
	Difficulty     string    `gorm:"size:20"`
	CorrectAnswers int       `gorm:"not null"`
	TotalQuestions int       `gorm:"not null"`
	TimeSeconds    int       `gorm:"not null"`
	TakenAt        time.Time `gorm:"autoCreateTime"`
}
