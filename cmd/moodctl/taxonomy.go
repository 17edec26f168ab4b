package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"moodmatch/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "List taxonomy versions and check each one covers every model label",
	RunE: func(cmd *cobra.Command, _ []string) error {
		versions := taxonomy.Shipped()
		for _, v := range cfg.Taxonomy.Versions {
			versions = append(versions, taxonomy.Version{ID: v.ID, Description: v.Description, Buckets: v.Buckets})
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "VERSION\tSOURCE\tACTIVE\tBUCKETS\tSTATUS")
		failed := 0
		for _, v := range versions {
			source := "config"
			if v.Shipped {
				source = "shipped"
			}
			active := ""
			if v.ID == cfg.Taxonomy.Active {
				active = "*"
			}
			status := "ok"
			if err := taxonomy.Check(v, cfg.Vision.Labels); err != nil {
				status = err.Error()
				failed++
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.ID, source, active, strings.Join(v.BucketNames(), ","), status)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d taxonomy version(s) do not match the configured labels", failed)
		}
		return nil
	},
}
