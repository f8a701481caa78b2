package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	ingestClear bool
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Ingest course transcripts",
	Long: `Parses course transcripts and loads them into the local vector store.

The path may be a single transcript file or a folder. Folder ingestion
skips courses that are already loaded; use --clear to wipe the store
first. With --watch, the folder is monitored and new or changed
transcripts are ingested as they appear.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestClear, "clear", false, "wipe existing courses before ingesting")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "keep watching the folder for new transcripts")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initIngest(); err != nil {
		return err
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	ctx := cmd.Context()

	if !info.IsDir() {
		if ingestWatch {
			return fmt.Errorf("--watch requires a folder, got file %s", path)
		}
		course, chunks, err := ingestService.AddCourseDocument(ctx, path)
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}
		cmd.Printf("Ingested %q: %d chunks\n", course.Title, chunks)
		return nil
	}

	courses, chunks, err := ingestService.AddCourseFolder(ctx, path, ingestClear)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	cmd.Printf("Ingested %d course(s), %d chunks\n", courses, chunks)

	if ingestWatch {
		cmd.Printf("Watching %s for new transcripts (Ctrl+C to stop)\n", path)
		return ingestService.Watch(ctx, path)
	}
	return nil
}
