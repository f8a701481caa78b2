package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askSession string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested courses",
	Long: `Answers a question using the ingested course materials.

The assistant searches the course content when needed and cites the
courses and lessons it drew from. Pass --session to continue a previous
conversation; each answer prints the session id to reuse.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session id for conversational follow-ups")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := initQuery(); err != nil {
		return err
	}

	answer, err := queryService.Query(cmd.Context(), args[0], askSession)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			if src.Link != "" {
				cmd.Printf("  %s <%s>\n", src.Label, src.Link)
			} else {
				cmd.Printf("  %s\n", src.Label)
			}
		}
	}
	cmd.Println()
	cmd.Printf("Session: %s\n", answer.SessionID)
	return nil
}
