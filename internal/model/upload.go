package model

import (
	"time"

	"gorm.io/gorm"
)

// Processing modes of an upload.
const (
	ModeAI      = "ai"      // every processed question got AI content
	ModePartial = "partial" // some questions fell back to placeholders
	ModeManual  = "manual"  // generation failed everywhere, manual practice only
)

type Upload struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	SourceLabel    string         `json:"source_label" gorm:"not null;index"`
	FileName       string         `json:"file_name"`
	ArchiveKey     string         `json:"archive_key,omitempty"`
	Mode           string         `json:"mode" gorm:"not null;default:'ai'"`
	Summary        string         `json:"summary" gorm:"type:text"`
	TotalQuestions int            `json:"total_questions"`
	Succeeded      int            `json:"succeeded"`
	Failed         int            `json:"failed"`
	Skipped        int            `json:"skipped"`
	Questions      []Question     `json:"questions,omitempty" gorm:"foreignKey:UploadID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
