package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"trivia-quiz-service/internal/config"
	"trivia-quiz-service/internal/logging"
)

// NewQuestionsCmd prints the catalog the server would load.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the question catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			rt, err := buildStack(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			for _, q := range rt.service.Catalog().Questions() {
				fmt.Fprintf(out, "%d\t%s\t%s\n", q.ID, q.Text, q.Answer)
			}
			return nil
		},
	}
}
