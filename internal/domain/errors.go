package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a play session is not registered.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuestion indicates question content that cannot be displayed.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrCorruptHighScores indicates persisted high scores could not be decoded.
	ErrCorruptHighScores = errors.New("corrupt high score data")
	// ErrControllerClosed is returned when a command reaches a stopped controller.
	ErrControllerClosed = errors.New("controller closed")
)
