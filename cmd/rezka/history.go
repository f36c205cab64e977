package main

import (
	"fmt"

	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/history"
	"github.com/spf13/cobra"
)

var flagClear bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently resolved titles and the last watched selection",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Forget the history and the last watch")
}

func openHistory() (*history.Store, error) {
	maxItems := current.cfg.History.MaxItems
	if maxItems <= 0 {
		maxItems = config.DefaultHistoryItems
	}
	return history.Open(current.cfg.History.Path, maxItems)
}

func historyRun(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if flagClear {
		if err := store.Clear(); err != nil {
			return err
		}
		if err := store.ClearLastWatch(); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared.")
		return nil
	}

	items, err := store.List()
	if err != nil {
		return err
	}
	last, err := store.LastWatch()
	if err != nil {
		return err
	}

	if ok, err := printJSON(out, map[string]any{"history": items, "lastWatch": last}); ok {
		return err
	}

	if last != nil {
		fmt.Fprintf(out, "Last watched: %s", last.MediaTitle)
		if last.EpisodeID != "" {
			fmt.Fprintf(out, " S%s E%s", last.SeasonID, last.EpisodeID)
		}
		fmt.Fprintf(out, " [%s, %s] %s\n  %s\n\n",
			orDash(last.TranslationTitle), orDash(last.Quality), last.WatchedAt.Format("2006-01-02 15:04"), last.MediaURL)
	}
	return printItems(out, items)
}
