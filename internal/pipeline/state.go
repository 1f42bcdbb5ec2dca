package pipeline

import "github.com/rs/zerolog/log"

// State is the processing stage of one question.
type State string

const (
	StatePending              State = "pending"
	StateAnswerRequested      State = "answer_requested"
	StateAnswerObtained       State = "answer_obtained"
	StateAnswerFailed         State = "answer_failed"
	StateExplanationRequested State = "explanation_requested"
	StateExplanationObtained  State = "explanation_obtained"
	StateExplanationFailed    State = "explanation_failed"
	StateStored               State = "stored"
)

var transitions = map[State][]State{
	StatePending:              {StateAnswerRequested},
	StateAnswerRequested:      {StateAnswerObtained, StateAnswerFailed},
	StateAnswerObtained:       {StateExplanationRequested},
	StateAnswerFailed:         {StateStored},
	StateExplanationRequested: {StateExplanationObtained, StateExplanationFailed},
	StateExplanationObtained:  {StateStored},
	StateExplanationFailed:    {StateStored},
}

// CanTransition reports whether next may follow from.
func CanTransition(from, next State) bool {
	for _, s := range transitions[from] {
		if s == next {
			return true
		}
	}
	return false
}

type tracker struct {
	position int
	state    State
}

func newTracker(position int) *tracker {
	return &tracker{position: position, state: StatePending}
}

func (t *tracker) to(next State) {
	if !CanTransition(t.state, next) {
		log.Error().
			Int("position", t.position).
			Str("from", string(t.state)).
			Str("to", string(next)).
			Msg("Invalid question state transition")
	}
	log.Debug().Int("position", t.position).Str("state", string(next)).Msg("Question state")
	t.state = next
}
