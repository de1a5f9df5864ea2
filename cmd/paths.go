package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  ythelp paths`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("TOC file: %s\n", config.TOCFile)
		fmt.Printf("Page template: %s\n", config.TemplateFile)
		fmt.Printf("Pages directory: %s\n", config.HTMLDir)
		fmt.Printf("Transcripts directory: %s\n", config.TranscriptsDir)
		fmt.Printf("Improved transcripts directory: %s\n", config.ImprovedDir)
		fmt.Printf("LLM log directory: %s\n", config.LLMLogDir)
		fmt.Printf("Video list: %s\n", config.VideoListFile)
		fmt.Printf("Error log: %s\n", config.ErrorLog)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
