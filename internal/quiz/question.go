package quiz

import (
	"math/rand"
	"sync"

	"timed-quiz-service/internal/domain"
)

// ControlID identifies a rendered answer control.
type ControlID string

// AnswerListener is notified once per presentation when a choice is submitted.
type AnswerListener func(choice string, outcome domain.Outcome)

// Binding pairs a rendered control with the choice text it shows.
type Binding struct {
	Control ControlID
	Choice  string
}

// Question wraps static question content with its presentation state.
type Question struct {
	content domain.Question
	shuffle func(n int, swap func(i, j int))

	mu       sync.Mutex
	bindings []Binding
	answered bool
	listener AnswerListener
}

// NewQuestion builds a question that shuffles with math/rand.
func NewQuestion(content domain.Question) *Question {
	return newQuestion(content, rand.Shuffle)
}

func newQuestion(content domain.Question, shuffle func(n int, swap func(i, j int))) *Question {
	return &Question{content: content, shuffle: shuffle}
}

func (q *Question) ID() string          { return q.content.ID }
func (q *Question) Prompt() string      { return q.content.Prompt }
func (q *Question) RightAnswer() string { return q.content.Answer }

// ChooseDisplayOrder returns a fresh permutation of the answer and distractors.
func (q *Question) ChooseDisplayOrder() []string {
	choices := make([]string, 0, len(q.content.Distractors)+1)
	choices = append(choices, q.content.Answer)
	choices = append(choices, q.content.Distractors...)
	q.shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// Reset clears bindings and re-arms the answer notification for a new presentation.
func (q *Question) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.bindings = q.bindings[:0]
	q.answered = false
	q.listener = nil
}

// OnAnswered installs the listener for the current presentation.
func (q *Question) OnAnswered(fn AnswerListener) {
	q.mu.Lock()
	q.listener = fn
	q.mu.Unlock()
}

// BindControl records that control renders choice. Rebinding a control replaces its choice.
func (q *Question) BindControl(control ControlID, choice string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := range q.bindings {
		if q.bindings[i].Control == control {
			q.bindings[i].Choice = choice
			return
		}
	}
	q.bindings = append(q.bindings, Binding{Control: control, Choice: choice})
}

// ChoiceFor resolves the choice a control was bound to.
func (q *Question) ChoiceFor(control ControlID) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, b := range q.bindings {
		if b.Control == control {
			return b.Choice, true
		}
	}
	return "", false
}

// Bindings returns the bindings in render order.
func (q *Question) Bindings() []Binding {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Binding, len(q.bindings))
	copy(out, q.bindings)
	return out
}

// SubmitAnswer scores choice and fires the answered listener. Only the first
// call per presentation has any effect; the boolean reports whether it did.
func (q *Question) SubmitAnswer(choice string) (domain.Outcome, bool) {
	q.mu.Lock()
	if q.answered {
		q.mu.Unlock()
		return "", false
	}
	q.answered = true
	listener := q.listener
	q.listener = nil
	q.mu.Unlock()

	outcome := domain.OutcomeIncorrect
	if choice == q.content.Answer {
		outcome = domain.OutcomeCorrect
	}
	if listener != nil {
		listener(choice, outcome)
	}
	return outcome, true
}

// Answered reports whether the current presentation has been answered.
func (q *Question) Answered() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.answered
}
