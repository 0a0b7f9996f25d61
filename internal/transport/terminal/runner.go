package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/quiz"
)

// Run reads commands from in and forwards them to controller until in is
// exhausted, the player quits, or ctx is canceled.
func Run(ctx context.Context, controller *app.Controller, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-controller.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := dispatch(controller, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func dispatch(controller *app.Controller, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch cmd := strings.ToLower(fields[0]); cmd {
	case "quit", "exit":
		return true, nil
	case "start":
		return false, controller.Start()
	case "scores":
		return false, controller.ViewHighScores()
	case "clear":
		return false, controller.ClearHighScores()
	case "back":
		return false, controller.Back()
	case "submit":
		return false, controller.SubmitScore(strings.Join(fields[1:], " "))
	default:
		n, err := strconv.Atoi(cmd)
		if err != nil {
			// unknown input behaves like a click outside the answer list
			return false, nil
		}
		return false, controller.Click(quiz.ControlID(fmt.Sprintf("choice-%d", n)))
	}
}
