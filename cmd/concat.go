package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

// concatCmd joins transcript files under "Sujet:" headers
var concatCmd = &cobra.Command{
	Use:   "concat [files or directories...]",
	Short: "Concatenate transcript files into one document",
	Long: `Concatenate text files in the given order, each preceded by a "Sujet: <name>"
line, with [Musique] markers removed. Directories expand to their *.txt files
sorted by name.

The result goes to Concatenated_<dir>.txt next to the first file unless
--output or --copy is given. Without files nothing happens.`,
	Example: `  ythelp concat improved/
  ythelp concat a-transcript.txt b-transcript.txt -o notes.txt
  ythelp concat improved/ --copy`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := internal.ExpandTranscriptPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return nil
		}

		content, err := internal.ConcatTranscripts(paths)
		if err != nil {
			return err
		}
		return emit(cmd, content, internal.DefaultConcatOutput(paths[0]), "Concatenated transcripts")
	},
}

func init() {
	internal.AddOutputFlags(concatCmd)
	rootCmd.AddCommand(concatCmd)
}
