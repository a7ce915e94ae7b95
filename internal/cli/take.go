package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"lesson-quiz-service/internal/client"
	"lesson-quiz-service/internal/domain"
	"lesson-quiz-service/internal/session"
)

type clientFlags struct {
	server string
	token  string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.server, "server", "http://localhost:8080", "base URL of the quiz service")
	cmd.Flags().StringVar(&f.token, "token", "", "bearer token identifying the user")
}

func (f *clientFlags) client() *client.Client {
	return client.New(f.server, f.token, &http.Client{Timeout: 15 * time.Second})
}

// NewTakeCmd runs a quiz interactively in the terminal.
func NewTakeCmd() *cobra.Command {
	var (
		flags    clientFlags
		lessonID string
	)
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a lesson quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTake(cmd, flags.client(), lessonID)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&lessonID, "lesson", domain.FixtureLessonID, "lesson id")
	return cmd
}

func runTake(cmd *cobra.Command, api *client.Client, lessonID string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	s := session.New(lessonID)
	if err := s.Load(ctx, api); err != nil {
		switch s.State() {
		case session.NotFound:
			fmt.Fprintln(out, "Quiz not found for this lesson.")
		default:
			fmt.Fprintf(out, "Could not load the quiz: %v\n", err)
		}
		return err
	}

	quiz := s.Quiz()
	fmt.Fprintf(out, "%s\n\n", quiz.Title)
	for i, q := range quiz.Questions {
		fmt.Fprintf(out, "%d. %s\n", i+1, q.QuestionText)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "   %d) %s\n", j+1, opt)
		}
		for {
			fmt.Fprint(out, "> ")
			choice, err := readChoice(in)
			if err != nil {
				return err
			}
			if err := s.Select(i, choice-1); err != nil {
				fmt.Fprintf(out, "Pick a number between 1 and %d.\n", len(q.Options))
				continue
			}
			break
		}
		fmt.Fprintln(out)
	}

	outcome, err := s.Submit(ctx, api)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Your score: %d%%\n", outcome.Score)
	fmt.Fprintf(out, "You got %d out of %d questions correct.\n", outcome.Correct, outcome.Total)
	if !outcome.Saved {
		fmt.Fprintf(out, "Warning: your result could not be saved: %v\n", outcome.Err)
	}
	return nil
}

// readChoice returns the next line as a number, or 0 when it is not one.
func readChoice(in *bufio.Scanner) (int, error) {
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return 0, err
		}
		return 0, errors.New("input closed before the quiz was finished")
	}
	n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
	if err != nil {
		return 0, nil
	}
	return n, nil
}
