package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pascal91DA/rezka-grabber/internal/captions"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/parser"
	"github.com/spf13/cobra"
)

var flagAt float64

var cuesCmd = &cobra.Command{
	Use:   "cues <file|url>",
	Short: "Parse a WebVTT caption track",
	Long: `Cues prints every cue of a WebVTT track, or with --at only the cue
shown at that playback position (in seconds).`,
	Args: cobra.ExactArgs(1),
	RunE: cuesRun,
}

func init() {
	cuesCmd.Flags().Float64Var(&flagAt, "at", 0, "Playback position in seconds")
}

func cuesRun(cmd *cobra.Command, args []string) error {
	source := args[0]

	var cues []models.Cue
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		fetched, err := current.client.FetchCues(cmd.Context(), source)
		if err != nil {
			return err
		}
		cues = fetched
	} else {
		f, err := os.Open(source)
		if err != nil {
			return err
		}
		defer f.Close()
		text, err := parser.ReadUTF8(f, "")
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", source, err)
		}
		cues = captions.ParseCueDocument(text)
	}

	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("at") {
		text, ok := captions.ActiveCueText(cues, flagAt)
		if handled, err := printJSON(out, map[string]any{"at": flagAt, "text": text, "active": ok}); handled {
			return err
		}
		if ok {
			fmt.Fprintln(out, text)
		}
		return nil
	}

	if ok, err := printJSON(out, cues); ok {
		return err
	}
	for _, cue := range cues {
		fmt.Fprintf(out, "%9.3f --> %9.3f  %s\n", cue.Start, cue.End, strings.ReplaceAll(cue.Text, "\n", " / "))
	}
	return nil
}
