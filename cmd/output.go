package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
)

// emit sends content where the --copy and --output flags ask for. Without
// either it goes to defaultPath, or to stdout when defaultPath is empty.
func emit(cmd *cobra.Command, content, defaultPath, what string) error {
	copyFlag, _ := cmd.Flags().GetBool("copy")
	if copyFlag {
		if err := clipboard.WriteAll(content); err != nil {
			return fmt.Errorf("copying %s to clipboard: %w", what, err)
		}
		if !config.Quiet {
			fmt.Fprintf(os.Stderr, "%s copied to clipboard\n", what)
		}
		return nil
	}

	outputFile, _ := cmd.Flags().GetString("output")
	if outputFile == "" {
		outputFile = defaultPath
	}
	if outputFile == "" {
		fmt.Println(content)
		return nil
	}

	if err := os.WriteFile(outputFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", what, err)
	}
	if !config.Quiet {
		fmt.Fprintf(os.Stderr, "%s written to %s\n", what, outputFile)
	}
	return nil
}
