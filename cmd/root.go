package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

var (
	config     *internal.Config
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ythelp",
	Short: "Turn a YouTube help channel into RoboHelp pages",
	Long: `ythelp pulls videos and captions from a YouTube channel, has an OpenAI
model correct and split each transcript into chapters, and writes one help
page per video into a RoboHelp project, listing it in the table of contents.

It also searches the channel and concatenates transcripts for reuse.`,
	Example: `  # Build help pages for every video not yet in the TOC
  ythelp build

  # Search the channel and copy the HTML snippet
  ythelp search "créer une facture" --copy

  # Concatenate improved transcripts
  ythelp concat improved/`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config = internal.InitConfig(configFile)

		if err := internal.EnsureDirs(config.ConfigDir); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		// Ensure default config exists in XDG config directory
		if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
		}

		// Ensure default prompt exists in XDG config directory
		if err := internal.EnsureDefaultPrompt(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default prompt: %v\n", err)
		}

		if cmd.Flags().Changed("verbose") {
			if err := internal.HandleVerboseFlag(cmd, config); err != nil {
				return err
			}
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			config.Quiet = true
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Cancelled on interrupt; the batch loop stops before the next video
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print results and errors")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is ./config.toml, then $XDG_CONFIG_HOME/ythelp/config.toml)")
}
