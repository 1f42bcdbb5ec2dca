// Package refine coerces free-form explanations into a one-line summary
// followed by a Markdown bullet list.
//
// Refine is best-effort: it never returns an error. A generator failure
// yields the best text seen so far with Degraded set, and an empty Text when
// nothing could be generated at all.
package refine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/reansql/internal/llm"
	"github.com/rs/zerolog/log"
)

// MaxCalls is the upper bound of generator calls per Refine.
const MaxCalls = 3

var errEmptyOutput = errors.New("refine: empty generator output")

const fewShotExample = `Returns every customer who placed an order in 2023.
- Joins customers to orders on customer_id.
- Keeps only orders dated inside the 2023 calendar year.
- DISTINCT removes customers that placed several orders.`

type Result struct {
	Text     string
	Calls    int
	Degraded bool
}

type Refiner struct {
	gen llm.Generator
}

func New(gen llm.Generator) *Refiner {
	return &Refiner{gen: gen}
}

func (r *Refiner) Refine(ctx context.Context, prompt string) Result {
	var res Result

	first, err := r.call(ctx, &res, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Explanation generation failed")
		res.Degraded = true
		return res
	}

	best := first
	reformatted, err := r.call(ctx, &res, reformatPrompt(first))
	if err != nil {
		log.Warn().Err(err).Msg("Explanation reformat failed, using initial text")
		res.Degraded = true
	} else {
		best = reformatted
	}

	extracted := Extract(best)
	if HasBullets(extracted) {
		res.Text = extracted
		return res
	}

	corrected, err := r.call(ctx, &res, correctivePrompt(best))
	if err != nil {
		log.Warn().Err(err).Msg("Corrective explanation prompt failed")
		res.Text = extracted
		res.Degraded = true
		return res
	}
	if out := Extract(corrected); out != "" {
		res.Text = out
	} else {
		res.Text = extracted
	}
	if !HasBullets(res.Text) {
		res.Degraded = true
	}
	return res
}

func (r *Refiner) call(ctx context.Context, res *Result, prompt string) (string, error) {
	if res.Calls >= MaxCalls {
		return "", fmt.Errorf("refine: call budget of %d spent", MaxCalls)
	}
	res.Calls++
	text, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errEmptyOutput
	}
	return text, nil
}

func reformatPrompt(explanation string) string {
	return "Rewrite the explanation below into exactly this shape and nothing else: " +
		"one summary line, then a Markdown bullet list where every line starts with \"- \".\n\n" +
		"Example:\n" + fewShotExample + "\n\n" +
		"Explanation:\n" + strings.TrimSpace(explanation)
}

func correctivePrompt(previous string) string {
	return "Your previous reply did not follow the required format. " +
		"Answer again with only one summary line followed by Markdown bullets starting with \"- \". " +
		"No headings, no code blocks, no closing remarks.\n\n" +
		"Example:\n" + fewShotExample + "\n\n" +
		"Previous reply:\n" + strings.TrimSpace(previous)
}
