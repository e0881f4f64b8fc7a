package content

import (
	"errors"

	"github.com/easymind/easymind/core"
)

// Question types
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionFillInTheBlank = "fill_in_the_blank"
)

// OptionCount is the fixed number of option slots of a multiple-choice question.
const OptionCount = 4

// validation failures, first failure wins
var (
	ErrMissingQuestionText = errors.New("missing question text")
	ErrIncompleteOptions   = errors.New("incomplete options")
	ErrAnswerNotInOptions  = errors.New("answer not among options")
	ErrMissingAnswer       = errors.New("missing answer")
)

// Question is a tagged variant: Type discriminates the payload.
// Options is only populated for multiple-choice questions (exactly OptionCount
// slots); fill-in-the-blank questions carry no options.
type Question struct {
	Type    string   `json:"type"`
	Text    string   `json:"questionText"`
	Options []string `json:"options,omitempty"`
	Answer  string   `json:"correctAnswer"`
}

// NewQuestion constructs a fresh, empty question of the given type.
// Switching type always builds a new variant instance rather than mutating
// a shared shape.
func NewQuestion(qtype string) Question {
	q := Question{Type: qtype}
	if qtype == QuestionMultipleChoice {
		q.Options = make([]string, OptionCount)
	}
	return q
}

// Validate checks the question's validity rules in order; the first failure
// wins. Pure, no side effects.
func (q Question) Validate() error {
	if q.Text == "" {
		return core.NewValidationError(ErrMissingQuestionText, core.FieldError{Field: "questionText", Error: ErrMissingQuestionText.Error()})
	}

	switch q.Type {
	case QuestionMultipleChoice:
		if len(q.Options) != OptionCount {
			return core.NewValidationError(ErrIncompleteOptions, core.FieldError{Field: "options", Error: ErrIncompleteOptions.Error()})
		}
		for _, opt := range q.Options {
			if opt == "" {
				return core.NewValidationError(ErrIncompleteOptions, core.FieldError{Field: "options", Error: ErrIncompleteOptions.Error()})
			}
		}
		if q.Answer == "" || !q.hasOption(q.Answer) {
			return core.NewValidationError(ErrAnswerNotInOptions, core.FieldError{Field: "correctAnswer", Error: ErrAnswerNotInOptions.Error()})
		}
	case QuestionFillInTheBlank:
		if q.Answer == "" {
			return core.NewValidationError(ErrMissingAnswer, core.FieldError{Field: "correctAnswer", Error: ErrMissingAnswer.Error()})
		}
	}
	return nil
}

func (q Question) hasOption(val string) bool {
	for _, opt := range q.Options {
		if opt == val { // exact string match
			return true
		}
	}
	return false
}

// IsEmpty reports whether every field of the question draft is still blank.
func (q Question) IsEmpty() bool {
	if q.Text != "" || q.Answer != "" {
		return false
	}
	for _, opt := range q.Options {
		if opt != "" {
			return false
		}
	}
	return true
}

// clone returns a deep copy so committed questions do not alias the live draft.
func (q Question) clone() Question {
	if q.Options != nil {
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
	}
	return q
}
