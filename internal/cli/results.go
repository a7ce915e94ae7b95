package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"lesson-quiz-service/internal/client"
	"lesson-quiz-service/internal/domain"
)

// NewResultsCmd prints the caller's recent results.
func NewResultsCmd() *cobra.Command {
	var (
		flags    clientFlags
		lessonID string
	)
	cmd := &cobra.Command{
		Use:   "results",
		Short: "List your recent quiz results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(cmd, flags.client(), lessonID)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&lessonID, "lesson", "", "only show results for this lesson")
	return cmd
}

func runResults(cmd *cobra.Command, api *client.Client, lessonID string) error {
	ctx := cmd.Context()
	results, err := api.ListResults(ctx, lessonID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results yet.")
		return nil
	}

	// Results only carry ids; the title is shown when the lesson still has that quiz.
	quizzes := map[string]*domain.Quiz{}
	title := func(r domain.UserResult) string {
		quiz, seen := quizzes[r.LessonID]
		if !seen {
			if q, err := api.GetQuiz(ctx, r.LessonID); err == nil {
				quiz = &q
			}
			quizzes[r.LessonID] = quiz
		}
		if quiz != nil && quiz.ID == r.QuizID {
			return quiz.Title
		}
		return r.QuizID
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tQUIZ\tSCORE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d%%\n", r.CompletedAt.Local().Format("2006-01-02 15:04"), title(r), r.Score)
	}
	return tw.Flush()
}
