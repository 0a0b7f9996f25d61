package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/transport/terminal"
)

// NewPlayCmd plays a quiz in the terminal against the configured stores.
func NewPlayCmd(configPath *string) *cobra.Command {
	var quizID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runPlay(ctx, *configPath, quizID)
		},
	}
	cmd.Flags().StringVar(&quizID, "quiz", "", "quiz id (defaults to quiz.id from config)")
	return cmd
}

func runPlay(ctx context.Context, configPath, quizID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// log output would interleave with the game, keep it to warnings
	log, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	if quizID == "" {
		quizID = quizIDFromConfig(cfg)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	service := newQuizService(cfg, b, log)
	_, controller, err := service.Open(ctx, quizID, terminal.NewView(os.Stdout))
	if err != nil {
		return fmt.Errorf("open quiz %s: %w", quizID, err)
	}

	err = terminal.Run(ctx, controller, os.Stdin)
	cancel()
	<-controller.Done()
	return err
}
