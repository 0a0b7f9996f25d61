package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks that a quiz can be played: required fields are present and
// no question lists its answer among the distractors.
func (q Quiz) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	for i, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Validate checks that the correct answer would be displayed exactly once.
func (q Question) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuestion, err)
	}
	seen := map[string]struct{}{q.Answer: {}}
	for _, d := range q.Distractors {
		if _, dup := seen[d]; dup {
			return fmt.Errorf("%w: duplicate choice %q", ErrInvalidQuestion, d)
		}
		seen[d] = struct{}{}
	}
	return nil
}
