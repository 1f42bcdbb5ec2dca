// Package pipeline drives an uploaded document through segmentation, answer
// generation and explanation refinement, then persists the resulting
// questions in one transaction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/reansql/internal/llm"
	"github.com/lshigami/reansql/internal/metrics"
	"github.com/lshigami/reansql/internal/model"
	"github.com/lshigami/reansql/internal/refine"
	"github.com/lshigami/reansql/internal/segment"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoQuestionsFound = errors.New("no questions found in document")
	ErrStorage          = errors.New("storage failure")
)

const (
	PlaceholderAnswer      = "AI answer unavailable for this question. Try solving it on your own."
	PlaceholderExplanation = "Explanation unavailable because answer generation failed."
	UnavailableExplanation = "Explanation unavailable."
	ManualAnswer           = "Manual practice mode: AI answers could not be generated for this document."
	ManualExplanation      = "Work through this question on your own and ask for a hint if you get stuck."
)

// Store persists an upload together with its questions.
type Store interface {
	SaveUpload(ctx context.Context, upload *model.Upload) error
}

// Explainer produces a summary plus bullet explanation. It never fails.
type Explainer interface {
	Refine(ctx context.Context, prompt string) refine.Result
}

type Input struct {
	SourceLabel string
	FileName    string
	Text        string
}

type Result struct {
	Upload       *model.Upload
	Mode         string
	Total        int
	Succeeded    int
	Failed       int
	Skipped      int
	StoppedEarly bool
	Summary      string
}

type Orchestrator struct {
	gen       llm.Generator
	explainer Explainer
	store     Store
	delay     time.Duration
}

// New builds an orchestrator. delay is the pause between the end of one
// question and the start of the next; zero disables pacing.
func New(gen llm.Generator, explainer Explainer, store Store, delay time.Duration) *Orchestrator {
	return &Orchestrator{gen: gen, explainer: explainer, store: store, delay: delay}
}

// Run processes the questions of in.Text in order. Generation failures are
// absorbed into placeholder content; only an empty document, a storage error
// or a cancelled context make it fail.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*Result, error) {
	segments := segment.Split(in.Text)
	if len(segments) == 0 {
		return nil, ErrNoQuestionsFound
	}

	total := len(segments)
	logger := log.With().Str("source_label", in.SourceLabel).Int("questions", total).Logger()
	logger.Info().Msg("Pipeline started")

	res := &Result{Total: total}
	questions := make([]model.Question, 0, total)

	for i, text := range segments {
		if i > 0 {
			if err := o.pause(ctx); err != nil {
				return nil, err
			}
		}

		q, ok := o.process(ctx, i+1, in.SourceLabel, text)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		questions = append(questions, q)
		metrics.PipelineQuestions.WithLabelValues(q.Status).Inc()

		if ok {
			res.Succeeded++
		} else {
			res.Failed++
		}

		if res.Failed*2 > total && i+1 < total {
			res.StoppedEarly = true
			logger.Warn().
				Int("failed", res.Failed).
				Int("processed", i+1).
				Msg("More than half of the questions failed, stopping early")
			break
		}
	}
	res.Skipped = total - len(questions)

	switch {
	case res.Succeeded == 0:
		res.Mode = model.ModeManual
		questions = manualQuestions(in.SourceLabel, segments)
		res.Skipped = 0
	case res.Failed > 0 || res.Skipped > 0:
		res.Mode = model.ModePartial
	default:
		res.Mode = model.ModeAI
	}
	res.Summary = summarize(res)

	upload := &model.Upload{
		SourceLabel:    in.SourceLabel,
		FileName:       in.FileName,
		Mode:           res.Mode,
		Summary:        res.Summary,
		TotalQuestions: total,
		Succeeded:      res.Succeeded,
		Failed:         res.Failed,
		Skipped:        res.Skipped,
		Questions:      questions,
	}
	if err := o.store.SaveUpload(ctx, upload); err != nil {
		logger.Error().Err(err).Msg("Failed to persist upload")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	res.Upload = upload
	metrics.PipelineRuns.WithLabelValues(res.Mode).Inc()

	logger.Info().
		Uint("upload_id", upload.ID).
		Str("mode", res.Mode).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Msg("Pipeline finished")
	return res, nil
}

// pause waits the configured delay after a question has finished.
func (o *Orchestrator) pause(ctx context.Context) error {
	if o.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(o.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (o *Orchestrator) process(ctx context.Context, position int, sourceLabel, text string) (model.Question, bool) {
	q := model.Question{
		SourceLabel:  sourceLabel,
		Position:     position,
		QuestionText: text,
		Status:       model.QuestionGenerated,
		Difficulty:   "medium",
	}
	track := newTracker(position)

	track.to(StateAnswerRequested)
	answer, err := o.gen.Generate(ctx, answerPrompt(text))
	if err == nil {
		answer = StripSQLComments(answer)
		if answer == "" {
			err = errors.New("answer is empty after removing comments")
		}
	}
	if err != nil {
		track.to(StateAnswerFailed)
		log.Warn().Err(err).Int("position", position).Msg("Answer generation failed, storing placeholder")
		q.AIAnswer = PlaceholderAnswer
		q.Explanation = PlaceholderExplanation
		q.Status = model.QuestionFailed
		track.to(StateStored)
		return q, false
	}
	track.to(StateAnswerObtained)
	q.AIAnswer = answer

	track.to(StateExplanationRequested)
	refined := o.explainer.Refine(ctx, explanationPrompt(text, answer))
	if refined.Text == "" {
		track.to(StateExplanationFailed)
		q.Explanation = UnavailableExplanation
	} else {
		track.to(StateExplanationObtained)
		q.Explanation = refined.Text
	}
	track.to(StateStored)
	return q, true
}

func manualQuestions(sourceLabel string, segments []string) []model.Question {
	out := make([]model.Question, len(segments))
	for i, text := range segments {
		out[i] = model.Question{
			SourceLabel:  sourceLabel,
			Position:     i + 1,
			QuestionText: text,
			AIAnswer:     ManualAnswer,
			Explanation:  ManualExplanation,
			Status:       model.QuestionManual,
			Difficulty:   "medium",
		}
	}
	return out
}

func summarize(r *Result) string {
	switch r.Mode {
	case model.ModeManual:
		return fmt.Sprintf("AI generation failed for every question. Saved %d questions for manual practice.", r.Total)
	case model.ModeAI:
		return fmt.Sprintf("Generated answers and explanations for all %d questions.", r.Total)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generated answers for %d of %d questions.", r.Succeeded, r.Total)
	if r.Failed > 0 {
		fmt.Fprintf(&sb, " %d failed and use placeholder content.", r.Failed)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(&sb, " Stopped early after too many failures; %d questions were skipped.", r.Skipped)
	}
	return sb.String()
}

func answerPrompt(question string) string {
	return "You are an expert SQL instructor. Write a correct SQL query that solves the exercise below. " +
		"Reply with the query in a single ```sql code block, followed by at most two sentences describing the result.\n\n" +
		"Exercise:\n" + question
}

func explanationPrompt(question, answer string) string {
	return "Explain how the SQL solution below answers the exercise. " +
		"Reply with one summary line, then a Markdown bullet list where every line starts with \"- \".\n\n" +
		"Exercise:\n" + question + "\n\nSolution:\n" + answer
}
