package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Show translations, seasons and episodes of a media page",
	Args:  cobra.ExactArgs(1),
	RunE:  infoRun,
}

func infoRun(cmd *cobra.Command, args []string) error {
	page, err := current.client.GetMediaPage(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if ok, err := printJSON(out, page); ok {
		return err
	}

	fmt.Fprintf(out, "%s (id %s)\n", orDash(page.Title), orDash(page.MediaID))
	if page.OriginalTitle != "" {
		fmt.Fprintf(out, "Original title: %s\n", page.OriginalTitle)
	}

	fmt.Fprintln(out, "Translations:")
	if len(page.Translations) == 0 {
		fmt.Fprintln(out, "  none found")
	}
	for _, t := range page.Translations {
		fmt.Fprintf(out, "  %-6s %s [%s]\n", t.ID, t.Title, orDash(t.Slug))
	}

	if !page.IsSeries() {
		return nil
	}
	for _, s := range page.Seasons {
		fmt.Fprintf(out, "Season %s: %s\n", s.ID, s.Title)
		for _, ep := range page.Episodes {
			if ep.SeasonID == s.ID {
				fmt.Fprintf(out, "  %-4s %s\n", ep.ID, ep.Title)
			}
		}
	}
	if len(page.Seasons) == 0 {
		fmt.Fprintln(out, "Episodes:")
		for _, ep := range page.Episodes {
			fmt.Fprintf(out, "  %s:%s %s\n", ep.SeasonID, ep.ID, ep.Title)
		}
	}
	return nil
}
