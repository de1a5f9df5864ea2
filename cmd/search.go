package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

// searchCmd renders channel search hits as clickable HTML items
var searchCmd = &cobra.Command{
	Use:   "search [keywords]",
	Short: "Search the channel and print an HTML snippet of matching videos",
	Long: `Query the YouTube Data API for channel videos matching the keywords and
render each hit as a clickable video-item block ready to paste in a help page.

Needs a Google API key: google_api_key in config.toml, YTHELP_GOOGLE_API_KEY,
or key_googleapi.txt in the working directory.`,
	Example: `  ythelp search créer une facture
  ythelp search "devis" --max 10 -o devis.htm
  ythelp search "relance client" --copy`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		maxResults, _ := cmd.Flags().GetInt64("max")

		app := internal.NewApp(config)
		videos, err := app.Search(cmd.Context(), query, maxResults)
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			return fmt.Errorf("no videos found for %q", query)
		}
		app.UI().Verbose("Found %d videos for %q\n", len(videos), query)

		snippet, err := internal.RenderVideoItems(videos)
		if err != nil {
			return err
		}
		return emit(cmd, snippet, "", "HTML snippet")
	},
}

func init() {
	searchCmd.Flags().Int64("max", internal.DefaultSearchResults, "Maximum number of videos")
	internal.AddOutputFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
