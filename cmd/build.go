package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

// buildCmd runs the channel to help pages batch
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Generate a help page for every channel video missing from the TOC",
	Long: `For each video of the channel, newest first: skip it if its page is already
listed in the table of contents, otherwise fetch its French captions, enhance
them with the OpenAI model (reusing improved/<name>-transcript.txt unless
--force), fill the page template, write the page to the contents directory
and add it to the TOC.

Per-video errors are appended to error.log and the run continues. The video
list is written to video_data.json at the end.`,
	Example: `  # Process the whole channel
  ythelp build

  # Try the ten most recent videos without writing anything
  ythelp build --limit 10 --dry-run

  # Regenerate enhanced transcripts with another model
  ythelp build --force --model gpt-4o`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.HandleModelFlag(cmd, config); err != nil {
			return err
		}
		if err := internal.HandleListerFlag(cmd, config); err != nil {
			return err
		}
		opts, err := internal.BuildOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		errLog, err := internal.OpenErrorLog(config.ErrorLog)
		if err != nil {
			return err
		}
		defer errLog.Close()

		app := internal.NewApp(config, internal.WithErrorLog(errLog))
		if err := internal.HandlePromptFlag(cmd, app); err != nil {
			return err
		}

		_, err = app.BuildHelpPages(cmd.Context(), opts)
		return err
	},
}

func init() {
	internal.AddOpenAIFlags(buildCmd)
	internal.AddBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}
