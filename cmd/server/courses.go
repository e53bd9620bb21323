package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sakif/skillverse/internal/client"
	"github.com/sakif/skillverse/internal/logging"
	"github.com/sakif/skillverse/internal/model"
)

var apiURL string

var coursesCmd = &cobra.Command{
	Use:     "courses",
	Short:   "List active courses and their enrollment counts from a running server",
	Example: `skillverse courses --api http://localhost:3001`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := flagLogger()
		catalog := client.NewCatalog(client.NewHTTPTransport(apiURL), logger)
		if err := catalog.Refresh(cmd.Context()); err != nil {
			return logging.Fatal(logger, "failed to fetch courses", err)
		}

		perCourse := lo.CountValuesBy(catalog.Enrollments(), func(e model.Enrollment) string { return e.CourseID })

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tENROLLED\tCREATED")
		for _, c := range catalog.Courses() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID, c.Title, perCourse[c.ID], humanize.Time(c.CreatedAt))
		}
		return w.Flush()
	},
}

func init() {
	coursesCmd.Flags().StringVar(&apiURL, "api", "http://localhost:3001", "Base URL of the Skillverse API")
	rootCmd.AddCommand(coursesCmd)
}
