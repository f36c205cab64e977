package main

import (
	"fmt"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/spf13/cobra"
)

var (
	flagCategory string
	flagPage     int
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List a catalog category page",
	Args:  cobra.NoArgs,
	RunE:  catalogRun,
}

func init() {
	names := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		names = append(names, c.Label)
	}
	catalogCmd.Flags().StringVarP(&flagCategory, "category", "c", models.Categories[0].Label,
		"Category: "+strings.Join(names, " | "))
	catalogCmd.Flags().IntVarP(&flagPage, "page", "p", 1, "Page number, starting at 1")
}

func catalogRun(cmd *cobra.Command, args []string) error {
	category, ok := findCategory(flagCategory)
	if !ok {
		return fmt.Errorf("unknown category %q", flagCategory)
	}
	if flagPage < 1 {
		return fmt.Errorf("page must be at least 1, got %d", flagPage)
	}

	items, err := current.client.Catalog(cmd.Context(), category, flagPage)
	if err != nil {
		return err
	}
	return printItems(cmd.OutOrStdout(), items)
}

// findCategory matches a category by label, case-insensitively, or by its
// "basePath/filter" pair.
func findCategory(name string) (models.Category, bool) {
	name = strings.TrimSpace(name)
	for _, c := range models.Categories {
		if strings.EqualFold(c.Label, name) || strings.EqualFold(c.BasePath+"/"+c.Filter, name) {
			return c, true
		}
	}
	return models.Category{}, false
}
