package model

import (
	"time"

	"gorm.io/gorm"
)

type Submission struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	QuestionID    uint           `json:"question_id" gorm:"not null;index"`
	Question      Question       `json:"question" gorm:"foreignKey:QuestionID"`
	SubmittedCode string         `json:"submitted_code" gorm:"type:text;not null"`
	IsCorrect     bool           `json:"is_correct" gorm:"not null;default:false"`
	AttemptCount  int            `json:"attempt_count" gorm:"not null;default:1"`
	SubmittedAt   time.Time      `json:"submitted_at" gorm:"autoCreateTime"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
