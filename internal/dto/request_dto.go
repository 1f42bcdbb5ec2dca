package dto

type SubmitAnswerRequest struct {
	SubmittedCode string `json:"submitted_code" binding:"required"`
}

// HintRequest asks for a tutoring hint. Either QuestionID or QuestionText
// must be set; QuestionID wins when both are present.
type HintRequest struct {
	QuestionID   *uint  `json:"question_id,omitempty"`
	QuestionText string `json:"question_text,omitempty"`
	UserSQL      string `json:"user_sql,omitempty"`
}
