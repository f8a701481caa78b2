package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
)

var coursesJSON bool

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the ingested courses",
	RunE:  runCourses,
}

func init() {
	coursesCmd.Flags().BoolVar(&coursesJSON, "json", false, "output the catalog as JSON")
	rootCmd.AddCommand(coursesCmd)
}

func runCourses(cmd *cobra.Command, _ []string) error {
	if err := initStore(); err != nil {
		return err
	}

	titles, err := courseStore.ListCourseTitles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list courses: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}

	analytics := &domain.CourseAnalytics{
		TotalCourses: len(titles),
		CourseTitles: titles,
	}

	if coursesJSON {
		data, err := json.MarshalIndent(analytics, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal catalog: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if analytics.TotalCourses == 0 {
		cmd.Println("No courses ingested yet. Run 'studyhall ingest <folder>' first.")
		return nil
	}

	cmd.Printf("%d course(s):\n", analytics.TotalCourses)
	for _, title := range analytics.CourseTitles {
		cmd.Printf("  %s\n", title)
	}
	return nil
}
