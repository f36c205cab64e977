package main

import (
	"fmt"
	"io"

	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/history"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/preload"
	"github.com/pascal91DA/rezka-grabber/internal/resolver"
	"github.com/spf13/cobra"
)

var (
	flagTranslation string
	flagSeason      string
	flagEpisode     string
	flagAttempts    int
	flagNext        bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Resolve the best playable stream URL of a film or episode",
	Long: `Resolve probes the site several times and keeps the best quality it sees.
Series default to the first episode of the first season.`,
	Args: cobra.ExactArgs(1),
	RunE: resolveRun,
}

func init() {
	resolveCmd.Flags().StringVarP(&flagTranslation, "translation", "t", "", "Translation id (default: first listed)")
	resolveCmd.Flags().StringVarP(&flagSeason, "season", "s", "", "Season id")
	resolveCmd.Flags().StringVarP(&flagEpisode, "episode", "e", "", "Episode id")
	resolveCmd.Flags().IntVarP(&flagAttempts, "attempts", "a", 0, "Maximum resolution attempts (default from config)")
	resolveCmd.Flags().BoolVarP(&flagNext, "next", "n", false, "Also preload the following episode")
}

// resolveOutput is the JSON shape of the resolve command.
type resolveOutput struct {
	Episode *models.Episode          `json:"episode,omitempty"`
	Result  *models.ResolutionResult `json:"result"`
	Next    *nextOutput              `json:"next,omitempty"`
}

type nextOutput struct {
	Episode models.Episode           `json:"episode"`
	Result  *models.ResolutionResult `json:"result,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

func resolveRun(cmd *cobra.Command, args []string) error {
	logger := config.GetLogger()
	ctx := cmd.Context()
	errOut := cmd.ErrOrStderr()

	page, err := current.client.GetMediaPage(ctx, args[0])
	if err != nil {
		return err
	}
	if len(page.Translations) == 0 {
		return fmt.Errorf("no translation found on %s", args[0])
	}
	if flagTranslation != "" {
		if _, ok := page.TranslationByID(flagTranslation); !ok {
			return fmt.Errorf("translation %q is not offered on this page", flagTranslation)
		}
	}

	seasonID, episodeID := pickEpisode(page, flagSeason, flagEpisode)
	req := resolver.RequestFor(page, flagTranslation, seasonID, episodeID)
	req.MaxAttempts = flagAttempts
	req.OnProgress = func(attempt, maxAttempts int, quality string) {
		fmt.Fprintf(errOut, "attempt %d/%d: %s\n", attempt, maxAttempts, orDash(quality))
	}

	var (
		store      *preload.Store
		nextKey    preload.Key
		nextEp     models.Episode
		preloading bool
	)
	if flagNext {
		store = preload.NewStore(preload.DefaultSize, preload.DefaultTTL)
		if _, ep, ok := resolver.NextRequest(page, req); ok {
			nextEp = ep
			nextKey, preloading = store.Preload(ctx, current.resolver, page, req)
		}
	}

	result, err := current.resolver.Resolve(ctx, req)
	if err != nil {
		if store != nil {
			store.Invalidate()
		}
		return err
	}

	recordWatch(page, req, result)

	output := resolveOutput{Result: result}
	if episodeID != "" {
		if ep, ok := findEpisode(page, seasonID, episodeID); ok {
			output.Episode = &ep
		}
	}
	if preloading {
		next := &nextOutput{Episode: nextEp}
		if res, ok := store.Wait(ctx, nextKey); ok {
			if value, err := res.Get(); err != nil {
				next.Error = err.Error()
			} else {
				next.Result = value
			}
		} else {
			next.Error = "preload interrupted"
		}
		output.Next = next
	} else if flagNext {
		logger.Info().Msg("No episode follows the resolved one")
	}

	out := cmd.OutOrStdout()
	if ok, err := printJSON(out, output); ok {
		return err
	}
	printResult(out, result)
	if output.Next != nil {
		fmt.Fprintf(out, "\nNext: season %s episode %s (%s)\n", output.Next.Episode.SeasonID, output.Next.Episode.ID, output.Next.Episode.Title)
		if output.Next.Result != nil {
			printResult(out, output.Next.Result)
		} else {
			fmt.Fprintf(out, "  failed: %s\n", output.Next.Error)
		}
	}
	return nil
}

// pickEpisode fills in the season and episode of a series selection, falling
// back to the first season and its first episode.
func pickEpisode(page *models.MediaPage, seasonID, episodeID string) (string, string) {
	if !page.IsSeries() || episodeID != "" {
		return seasonID, episodeID
	}
	if seasonID == "" {
		seasonID = page.Episodes[0].SeasonID
		if len(page.Seasons) > 0 {
			seasonID = page.Seasons[0].ID
		}
	}
	if ep, ok := page.FirstEpisode(seasonID); ok {
		return seasonID, ep.ID
	}
	return seasonID, episodeID
}

func findEpisode(page *models.MediaPage, seasonID, episodeID string) (models.Episode, bool) {
	for _, ep := range page.Episodes {
		if ep.SeasonID == seasonID && ep.ID == episodeID {
			return ep, true
		}
	}
	return models.Episode{}, false
}

func printResult(w io.Writer, result *models.ResolutionResult) {
	fmt.Fprintf(w, "URL:      %s\n", result.URL)
	fmt.Fprintf(w, "Quality:  %s\n", orDash(result.Quality))
	fmt.Fprintf(w, "Found at: attempt %d of %d (%s)\n", result.FoundAt, result.Attempts, result.Strategy)
	for _, s := range result.Streams {
		fmt.Fprintf(w, "  %-12s %s\n", s.Quality, s.URL)
	}
	for _, sub := range result.Subtitles {
		fmt.Fprintf(w, "Subtitle: %s [%s] %s\n", sub.Title, orDash(sub.Language), sub.URL)
	}
}

// recordWatch stores the media in the history and remembers the selection.
// Failures are logged; they never fail the command.
func recordWatch(page *models.MediaPage, req resolver.Request, result *models.ResolutionResult) {
	logger := config.GetLogger()

	store, err := openHistory()
	if err != nil {
		logger.Warn().Err(err).Msg("History unavailable")
		return
	}
	defer store.Close()

	item := models.CatalogItem{
		ID:        page.MediaID,
		Title:     page.Title,
		URL:       page.URL,
		PosterURL: page.PosterURL,
	}
	if err := store.Add(item); err != nil {
		logger.Warn().Err(err).Str("mediaId", page.MediaID).Msg("Failed to add history entry")
	}

	record := history.LastWatch{
		MediaID:       page.MediaID,
		MediaTitle:    page.Title,
		MediaURL:      page.URL,
		TranslationID: req.TranslationID,
		SeasonID:      req.SeasonID,
		EpisodeID:     req.EpisodeID,
		Quality:       result.Quality,
	}
	if t, ok := page.TranslationByID(req.TranslationID); ok {
		record.TranslationTitle = t.Title
	}
	if s, ok := page.SeasonByID(req.SeasonID); ok {
		record.SeasonTitle = s.Title
	}
	if ep, ok := findEpisode(page, req.SeasonID, req.EpisodeID); ok {
		record.EpisodeTitle = ep.Title
	}
	if err := store.SaveLastWatch(record); err != nil {
		logger.Warn().Err(err).Msg("Failed to save last watch")
	}
}
