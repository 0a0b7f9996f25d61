package quiz

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"timed-quiz-service/internal/domain"
)

const (
	// DefaultPenalty is deducted from the countdown on an incorrect answer.
	DefaultPenalty = 5 * time.Second
	// DefaultTickInterval is how often the countdown decrements.
	DefaultTickInterval = time.Second
)

// State is the progression state of a quiz run.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateInProgress:
		return "inProgress"
	case StateFinished:
		return "finished"
	default:
		return "notStarted"
	}
}

// Finish is delivered to the finish listener when a run ends.
type Finish struct {
	Status domain.FinishStatus
	Score  int
}

// Option configures a Machine.
type Option func(*Machine)

// WithFinishListener registers the callback fired once per run when it ends.
func WithFinishListener(fn func(Finish)) Option {
	return func(m *Machine) { m.onFinish = fn }
}

// WithTickListener registers the callback fired whenever remaining time changes.
func WithTickListener(fn func(remaining time.Duration)) Option {
	return func(m *Machine) { m.onTick = fn }
}

// WithPenalty overrides the time deducted for an incorrect answer.
func WithPenalty(d time.Duration) Option {
	return func(m *Machine) { m.penalty = d }
}

// WithTickInterval sets how often the countdown ticks on its own. Zero
// disables the background countdown; callers then drive Tick themselves.
func WithTickInterval(d time.Duration) Option {
	return func(m *Machine) { m.tickEvery = d }
}

// WithShuffler replaces rand.Shuffle for question order.
func WithShuffler(fn func(n int, swap func(i, j int))) Option {
	return func(m *Machine) { m.shuffle = fn }
}

// Machine tracks progression through a quiz: question index, score and the countdown.
type Machine struct {
	penalty   time.Duration
	step      time.Duration
	tickEvery time.Duration
	shuffle   func(n int, swap func(i, j int))
	onFinish  func(Finish)
	onTick    func(time.Duration)

	mu         sync.Mutex
	questions  []*Question
	state      State
	index      int
	score      int
	remaining  time.Duration
	submitted  bool
	lastFinish domain.FinishStatus
	lastScore  int
	run        uint64
	stop       context.CancelFunc
}

// NewMachine builds a machine over the given questions.
func NewMachine(questions []*Question, opts ...Option) *Machine {
	m := &Machine{
		penalty:   DefaultPenalty,
		step:      time.Second,
		tickEvery: DefaultTickInterval,
		shuffle:   rand.Shuffle,
		questions: append([]*Question(nil), questions...),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewMachineFromQuiz wraps quiz content in presentation-ready questions.
func NewMachineFromQuiz(content domain.Quiz, opts ...Option) *Machine {
	questions := make([]*Question, 0, len(content.Questions))
	for _, q := range content.Questions {
		questions = append(questions, NewQuestion(q))
	}
	return NewMachine(questions, opts...)
}

// Start begins a new run, cancelling any countdown still attached to a previous one.
func (m *Machine) Start(duration time.Duration) {
	m.mu.Lock()
	m.cancelCountdownLocked()
	m.state = StateInProgress
	m.index = 0
	m.score = 0
	m.submitted = false
	if duration < 0 {
		duration = 0
	}
	m.remaining = duration
	m.shuffle(len(m.questions), func(i, j int) {
		m.questions[i], m.questions[j] = m.questions[j], m.questions[i]
	})
	m.run++
	run := m.run
	if m.tickEvery > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		m.stop = cancel
		go m.countdown(ctx, run, m.tickEvery)
	}
	remaining := m.remaining
	m.mu.Unlock()

	m.notifyTick(remaining)
}

// Advance moves to the next question. Past the last question the run
// finishes as completed and nil is returned; the finish fires once.
func (m *Machine) Advance() (*Question, bool) {
	m.mu.Lock()
	if m.state != StateInProgress {
		m.mu.Unlock()
		return nil, false
	}
	m.index++
	if m.index > len(m.questions) {
		finish := m.finishLocked(domain.FinishCompleted)
		m.mu.Unlock()
		m.notifyFinish(finish)
		return nil, false
	}
	q := m.questions[m.index-1]
	m.mu.Unlock()
	return q, true
}

// RecordAnswer scores a correct answer or deducts the penalty for an
// incorrect one. A penalty that exhausts the countdown times the run out.
func (m *Machine) RecordAnswer(correct bool) {
	m.mu.Lock()
	if m.state != StateInProgress {
		m.mu.Unlock()
		return
	}
	if correct {
		m.score++
		m.mu.Unlock()
		return
	}
	m.remaining -= m.penalty
	var finish *Finish
	if m.remaining <= 0 {
		m.remaining = 0
		f := m.finishLocked(domain.FinishTimedOut)
		finish = &f
	}
	remaining := m.remaining
	m.mu.Unlock()

	m.notifyTick(remaining)
	if finish != nil {
		m.notifyFinish(*finish)
	}
}

// Tick decrements the countdown once. It reports whether the run is still in progress.
func (m *Machine) Tick() bool {
	m.mu.Lock()
	run := m.run
	m.mu.Unlock()
	return m.tick(run)
}

func (m *Machine) tick(run uint64) bool {
	m.mu.Lock()
	if m.state != StateInProgress || run != m.run {
		m.mu.Unlock()
		return false
	}
	m.remaining -= m.step
	var finish *Finish
	if m.remaining <= 0 {
		m.remaining = 0
		f := m.finishLocked(domain.FinishTimedOut)
		finish = &f
	}
	remaining := m.remaining
	m.mu.Unlock()

	m.notifyTick(remaining)
	if finish != nil {
		m.notifyFinish(*finish)
		return false
	}
	return true
}

func (m *Machine) countdown(ctx context.Context, run uint64, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.tick(run) {
				return
			}
		}
	}
}

// Stop cancels the background countdown without changing the run state.
func (m *Machine) Stop() {
	m.mu.Lock()
	m.cancelCountdownLocked()
	m.mu.Unlock()
}

func (m *Machine) finishLocked(status domain.FinishStatus) Finish {
	m.state = StateFinished
	m.lastFinish = status
	m.lastScore = m.score
	m.cancelCountdownLocked()
	return Finish{Status: status, Score: m.score}
}

func (m *Machine) cancelCountdownLocked() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}

func (m *Machine) notifyTick(remaining time.Duration) {
	if m.onTick != nil {
		m.onTick(remaining)
	}
}

func (m *Machine) notifyFinish(f Finish) {
	if m.onFinish != nil {
		m.onFinish(f)
	}
}

// Current returns the question at the current index, if any.
func (m *Machine) Current() (*Question, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index < 1 || m.index > len(m.questions) {
		return nil, false
	}
	return m.questions[m.index-1], true
}

func (m *Machine) Score() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score
}

func (m *Machine) TimeRemaining() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// Index is the 1-based position of the current question; 0 before the first advance.
func (m *Machine) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) QuestionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.questions)
}

// LastFinish returns the classification and score of the most recent finished run.
func (m *Machine) LastFinish() (domain.FinishStatus, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFinish, m.lastScore
}

func (m *Machine) Submitted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitted
}

// MarkSubmitted records that the last run's score has been saved.
func (m *Machine) MarkSubmitted() {
	m.mu.Lock()
	m.submitted = true
	m.mu.Unlock()
}
