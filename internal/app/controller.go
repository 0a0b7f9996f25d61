package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"timed-quiz-service/internal/domain"
	"timed-quiz-service/internal/quiz"
)

// Settings holds the timing rules of a quiz run.
type Settings struct {
	Duration     time.Duration
	Penalty      time.Duration
	AdvanceDelay time.Duration
	TickInterval time.Duration
}

// DefaultSettings mirrors the classic rules: one minute, five second penalty,
// two seconds of feedback before the next question.
func DefaultSettings() Settings {
	return Settings{
		Duration:     60 * time.Second,
		Penalty:      quiz.DefaultPenalty,
		AdvanceDelay: 2 * time.Second,
		TickInterval: quiz.DefaultTickInterval,
	}
}

// Snapshot is a read-only view of a controller's state.
type Snapshot struct {
	Screen        domain.Screen       `json:"screen"`
	Previous      domain.Screen       `json:"previous"`
	InfoBar       bool                `json:"infoBar"`
	State         string              `json:"state"`
	Index         int                 `json:"index"`
	QuestionCount int                 `json:"questionCount"`
	Score         int                 `json:"score"`
	TimeRemaining int                 `json:"timeRemaining"`
	Submitted     bool                `json:"submitted"`
	LastFinish    domain.FinishStatus `json:"lastFinish,omitempty"`
	LastScore     int                 `json:"lastScore"`
}

// Controller drives the four quiz screens for a single player. Every
// command, timer firing and machine notification runs on the goroutine
// executing Run, so screen state needs no locking.
type Controller struct {
	machine  *quiz.Machine
	scores   *HighScoreService
	view     View
	log      *zap.Logger
	settings Settings
	duration time.Duration

	inbox *mailbox
	done  chan struct{}
	ctx   context.Context

	current        domain.Screen
	previous       domain.Screen
	infoBar        bool
	question       *quiz.Question
	accepting      bool
	pendingAdvance bool
	advanceTimer   *time.Timer
	advanceGen     uint64
}

// NewController builds a controller for the given quiz content. Run must be
// called to start processing commands.
func NewController(content domain.Quiz, scores *HighScoreService, view View, settings Settings, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		scores:   scores,
		view:     view,
		log:      log.With(zap.String("quiz_id", content.ID)),
		settings: settings,
		duration: settings.Duration,
		inbox:    newMailbox(),
		done:     make(chan struct{}),
		current:  domain.ScreenIntro,
		previous: domain.ScreenIntro,
	}
	if content.DurationSeconds > 0 {
		c.duration = time.Duration(content.DurationSeconds) * time.Second
	}
	c.machine = quiz.NewMachineFromQuiz(content,
		quiz.WithPenalty(settings.Penalty),
		quiz.WithTickInterval(settings.TickInterval),
		quiz.WithTickListener(func(remaining time.Duration) {
			c.inbox.post(func() { c.view.ShowTimer(remaining) })
		}),
		quiz.WithFinishListener(func(f quiz.Finish) {
			c.inbox.post(func() { c.onFinish(f) })
		}),
	)
	return c
}

// Run processes events until ctx is canceled. Pending timers are stopped on exit.
func (c *Controller) Run(ctx context.Context) {
	c.ctx = ctx
	defer close(c.done)
	defer c.shutdown()

	c.view.ShowScreen(c.current)
	c.view.SetInfoBar(c.infoBar)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.inbox.signal:
			for _, fn := range c.inbox.drain() {
				fn()
			}
		}
	}
}

// Done is closed once Run has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) shutdown() {
	c.inbox.close()
	c.cancelAdvance()
	c.machine.Stop()
}

func (c *Controller) post(fn func()) error {
	if !c.inbox.post(fn) {
		return domain.ErrControllerClosed
	}
	return nil
}

// Start begins a new quiz run.
func (c *Controller) Start() error { return c.post(c.onStart) }

// Click handles a click on a rendered control.
func (c *Controller) Click(control quiz.ControlID) error {
	return c.post(func() { c.onClick(control) })
}

// SubmitScore stores the last run's score under the given initials.
func (c *Controller) SubmitScore(initials string) error {
	return c.post(func() { c.onSubmitScore(initials) })
}

// ViewHighScores switches to the high-score list.
func (c *Controller) ViewHighScores() error { return c.post(c.showHighScores) }

// ClearHighScores wipes the list and redisplays it.
func (c *Controller) ClearHighScores() error { return c.post(c.onClearHighScores) }

// Back returns to the previous screen.
func (c *Controller) Back() error { return c.post(c.onBack) }

// Snapshot reads the controller state from the loop goroutine.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	result := make(chan Snapshot, 1)
	if err := c.post(func() { result <- c.snapshot() }); err != nil {
		return Snapshot{}, err
	}
	select {
	case s := <-result:
		return s, nil
	case <-c.done:
		return Snapshot{}, domain.ErrControllerClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (c *Controller) snapshot() Snapshot {
	lastFinish, lastScore := c.machine.LastFinish()
	return Snapshot{
		Screen:        c.current,
		Previous:      c.previous,
		InfoBar:       c.infoBar,
		State:         c.machine.State().String(),
		Index:         c.machine.Index(),
		QuestionCount: c.machine.QuestionCount(),
		Score:         c.machine.Score(),
		TimeRemaining: int(c.machine.TimeRemaining() / time.Second),
		Submitted:     c.machine.Submitted(),
		LastFinish:    lastFinish,
		LastScore:     lastScore,
	}
}

func (c *Controller) onStart() {
	c.log.Debug("quiz started")
	c.cancelAdvance()
	c.pendingAdvance = false

	c.switchScreen(domain.ScreenQuestion)
	c.setInfoBar(true)

	c.machine.Start(c.duration)
	c.accepting = true
	c.renderQuestion()
}

func (c *Controller) switchScreen(target domain.Screen) {
	if target == c.current {
		return
	}
	if c.current == domain.ScreenQuestion {
		c.cancelAdvance()
	}
	c.previous = c.current
	c.current = target
	c.view.ShowScreen(target)
	c.setInfoBar(c.machine.Index() > 0)

	if target == domain.ScreenQuestion && c.pendingAdvance {
		c.scheduleAdvance()
	}
}

func (c *Controller) setInfoBar(visible bool) {
	if visible == c.infoBar {
		return
	}
	c.infoBar = visible
	c.view.SetInfoBar(visible)
}

func (c *Controller) renderQuestion() {
	c.pendingAdvance = false
	c.view.ClearQuestion()

	q, ok := c.machine.Advance()
	if !ok {
		c.question = nil
		return
	}
	q.Reset()
	c.question = q

	choices := q.ChooseDisplayOrder()
	controls := make([]Control, 0, len(choices))
	for i, choice := range choices {
		id := quiz.ControlID(fmt.Sprintf("choice-%d", i+1))
		q.BindControl(id, choice)
		controls = append(controls, Control{ID: id, Text: choice})
	}
	q.OnAnswered(c.onAnswered)

	index := c.machine.Index()
	c.view.ShowQuestion(QuestionView{
		Number:     index,
		Title:      fmt.Sprintf("Q.%d) %s", index, q.Prompt()),
		Prompt:     q.Prompt(),
		Controls:   controls,
		LockHeight: true,
	})
}

func (c *Controller) onClick(control quiz.ControlID) {
	if !c.accepting || c.question == nil || c.current != domain.ScreenQuestion {
		return
	}
	choice, ok := c.question.ChoiceFor(control)
	if !ok {
		c.log.Debug("ignoring click on unbound control", zap.String("control", string(control)))
		return
	}
	c.question.SubmitAnswer(choice)
}

func (c *Controller) onAnswered(choice string, outcome domain.Outcome) {
	q := c.question
	c.log.Debug("answer selected", zap.String("outcome", string(outcome)), zap.String("choice", choice))

	feedback := Feedback{Outcome: outcome}
	if outcome == domain.OutcomeCorrect {
		feedback.Message = domain.FeedbackCorrect
		feedback.MessageColor = domain.ColorCorrect
	} else {
		feedback.Message = domain.FeedbackIncorrect
		feedback.MessageColor = domain.ColorIncorrect
	}
	for _, b := range q.Bindings() {
		if b.Choice == choice {
			feedback.Chosen = b.Control
			if outcome == domain.OutcomeIncorrect {
				feedback.Colors = append(feedback.Colors, ControlColor{ID: b.Control, Color: domain.ColorIncorrect})
			}
		}
		if b.Choice == q.RightAnswer() {
			feedback.Colors = append(feedback.Colors, ControlColor{ID: b.Control, Color: domain.ColorRightAnswer})
		}
	}

	c.machine.RecordAnswer(outcome == domain.OutcomeCorrect)
	c.view.ShowFeedback(feedback)

	c.pendingAdvance = true
	if c.current == domain.ScreenQuestion {
		c.scheduleAdvance()
	}
}

func (c *Controller) scheduleAdvance() {
	c.cancelAdvance()
	gen := c.advanceGen
	c.advanceTimer = time.AfterFunc(c.settings.AdvanceDelay, func() {
		c.inbox.post(func() { c.onAdvanceDue(gen) })
	})
}

// cancelAdvance stops the auto-advance timer and invalidates any firing
// already queued. pendingAdvance is left alone so the timer can be re-armed.
func (c *Controller) cancelAdvance() {
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
		c.advanceTimer = nil
	}
	c.advanceGen++
}

func (c *Controller) onAdvanceDue(gen uint64) {
	if gen != c.advanceGen || !c.pendingAdvance {
		return
	}
	c.advanceTimer = nil
	if c.machine.State() != quiz.StateInProgress {
		c.pendingAdvance = false
		return
	}
	c.renderQuestion()
}

func (c *Controller) onFinish(f quiz.Finish) {
	// a finish queued before a restart belongs to the old run
	if c.machine.State() != quiz.StateFinished {
		return
	}
	c.log.Debug("quiz finished", zap.String("status", string(f.Status)), zap.Int("score", f.Score))

	c.cancelAdvance()
	c.pendingAdvance = false
	c.accepting = false

	c.switchScreen(domain.ScreenFinish)
	c.setInfoBar(true)
	c.view.ShowFinish(FinishView{
		Score:   f.Score,
		Status:  f.Status,
		Message: fmt.Sprintf("Final Score: %d", f.Score),
	})
}

func (c *Controller) onSubmitScore(initials string) {
	if c.machine.State() != quiz.StateFinished || c.machine.Submitted() {
		return
	}
	status, score := c.machine.LastFinish()
	_, ok, err := c.scores.Submit(c.ctx, initials, score, status)
	if err != nil {
		c.log.Warn("submit high score failed", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	c.machine.MarkSubmitted()
	c.showHighScores()
}

func (c *Controller) showHighScores() {
	records := c.scores.List(c.ctx)
	c.switchScreen(domain.ScreenHighScores)
	c.setInfoBar(true)
	c.view.ShowHighScores(records)
}

func (c *Controller) onClearHighScores() {
	if err := c.scores.Clear(c.ctx); err != nil {
		c.log.Warn("clear high scores failed", zap.Error(err))
	}
	c.showHighScores()
}

func (c *Controller) onBack() {
	submitted := c.machine.Submitted()
	if submitted && (c.current == domain.ScreenFinish || c.previous == domain.ScreenFinish) {
		c.switchScreen(domain.ScreenIntro)
		c.setInfoBar(false)
		return
	}
	c.switchScreen(c.previous)
}
