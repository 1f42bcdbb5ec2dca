package model

import (
	"time"

	"gorm.io/gorm"
)

// Question statuses.
const (
	QuestionGenerated = "generated"
	QuestionFailed    = "failed"
	QuestionManual    = "manual"
)

type Question struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	UploadID       uint           `json:"upload_id" gorm:"not null;index"`
	SourceLabel    string         `json:"source_label" gorm:"not null;index"`
	Position       int            `json:"position" gorm:"not null"`
	QuestionText   string         `json:"question_text" gorm:"type:text;not null"`
	ExpectedResult string         `json:"expected_result" gorm:"type:text"`
	AIAnswer       string         `json:"ai_answer" gorm:"type:text"`
	Explanation    string         `json:"explanation" gorm:"type:text"`
	Status         string         `json:"status" gorm:"not null;default:'generated'"`
	Difficulty     string         `json:"difficulty" gorm:"not null;default:'medium'"` // "easy", "medium", "hard"
	Category       string         `json:"category"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
