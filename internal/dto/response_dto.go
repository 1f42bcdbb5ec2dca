package dto

import "time"

type QuestionResponse struct {
	ID             uint      `json:"id"`
	UploadID       uint      `json:"upload_id"`
	SourceLabel    string    `json:"source_label"`
	Position       int       `json:"position"`
	QuestionText   string    `json:"question_text"`
	ExpectedResult string    `json:"expected_result,omitempty"`
	AIAnswer       string    `json:"ai_answer"`
	Explanation    string    `json:"explanation"`
	Status         string    `json:"status"`
	Difficulty     string    `json:"difficulty"`
	Category       string    `json:"category,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type UploadResponse struct {
	ID             uint               `json:"id"`
	SourceLabel    string             `json:"source_label"`
	FileName       string             `json:"file_name"`
	ArchiveKey     string             `json:"archive_key,omitempty"`
	Mode           string             `json:"mode"`
	Summary        string             `json:"summary"`
	TotalQuestions int                `json:"total_questions"`
	Succeeded      int                `json:"succeeded"`
	Failed         int                `json:"failed"`
	Skipped        int                `json:"skipped"`
	Questions      []QuestionResponse `json:"questions,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

type UploadSummaryResponse struct {
	ID            uint      `json:"id"`
	SourceLabel   string    `json:"source_label"`
	FileName      string    `json:"file_name"`
	Mode          string    `json:"mode"`
	Summary       string    `json:"summary"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type SubmissionResponse struct {
	ID            uint      `json:"id"`
	QuestionID    uint      `json:"question_id"`
	SubmittedCode string    `json:"submitted_code"`
	IsCorrect     bool      `json:"is_correct"`
	AttemptCount  int       `json:"attempt_count"`
	SubmittedAt   time.Time `json:"submitted_at"`
	// ReferenceAvailable is false when the question only has placeholder
	// content, in which case a submission can never be correct.
	ReferenceAvailable bool `json:"reference_available"`
}

// Practice statuses of a question.
const (
	ProgressCorrect     = "correct"
	ProgressIncorrect   = "incorrect"
	ProgressUnattempted = "unattempted"
)

type QuestionProgress struct {
	QuestionID uint   `json:"question_id"`
	Position   int    `json:"position"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
}

type ProgressResponse struct {
	UploadID    uint               `json:"upload_id"`
	Total       int                `json:"total"`
	Correct     int                `json:"correct"`
	Incorrect   int                `json:"incorrect"`
	Unattempted int                `json:"unattempted"`
	Questions   []QuestionProgress `json:"questions"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeNotFound         = "not_found"
	CodeExtractionFailed = "extraction_failed"
	CodeNoQuestions      = "no_questions_found"
	CodeFileTooLarge     = "file_too_large"
	CodeStorageFailure   = "storage_failure"
	CodeAIUnavailable    = "ai_unavailable"
	CodeRateLimited      = "rate_limited"
	CodeInternal         = "internal_error"
)

type ErrorResponse struct {
	Code    string   `json:"code,omitempty"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
