package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

// transcriptCmd prints the raw captions of one video
var transcriptCmd = &cobra.Command{
	Use:   "transcript [YouTube URL or ID]",
	Short: "Get the captions of a video (cached or downloaded)",
	Example: `  ythelp transcript "https://www.youtube.com/watch?v=tAP1eZYEuKA"
  ythelp transcript tAP1eZYEuKA -o transcript.txt
  ythelp transcript tAP1eZYEuKA --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, videoID, err := internal.ParseVideoArg(args[0])
		if err != nil {
			return err
		}

		app := internal.NewApp(config)
		transcript, err := app.GetTranscript(cmd.Context(), videoID)
		if err != nil {
			return err
		}

		if clean, _ := cmd.Flags().GetBool("clean"); clean {
			transcript = internal.RemoveMusicMarkers(transcript)
		}
		return emit(cmd, transcript, "", "Transcript")
	},
}

func init() {
	transcriptCmd.Flags().Bool("clean", false, "Remove [Musique] markers")
	internal.AddOutputFlags(transcriptCmd)
	rootCmd.AddCommand(transcriptCmd)
}
