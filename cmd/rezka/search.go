package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search films and series by title",
	Args:  cobra.MinimumNArgs(1),
	RunE:  searchRun,
}

func searchRun(cmd *cobra.Command, args []string) error {
	items, err := current.client.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	return printItems(cmd.OutOrStdout(), items)
}

func printItems(w io.Writer, items []models.CatalogItem) error {
	if ok, err := printJSON(w, items); ok {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No results.")
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(w, "%-8s %s", item.ID, item.Title)
		if item.Year != "" {
			fmt.Fprintf(w, " (%s)", item.Year)
		}
		if item.Rating != "" {
			fmt.Fprintf(w, " *%s", item.Rating)
		}
		fmt.Fprintf(w, "\n         %s\n", item.URL)
	}
	return nil
}
