package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

var previewCmd = &cobra.Command{
	Use:   "preview [page.htm or -transcript.txt]",
	Short: "Render a generated page or enhanced transcript in the terminal",
	Example: `  ythelp preview Videos/contents/creer_une_facture.htm
  ythelp preview improved/creer_une_facture-transcript.txt --chapters`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chapters, _ := cmd.Flags().GetBool("chapters")
		out, err := internal.PreviewFile(args[0], chapters)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	previewCmd.Flags().Bool("chapters", false, "Only list chapter titles")
	rootCmd.AddCommand(previewCmd)
}
