package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddOpenAIFlags adds flags related to OpenAI API functionality
func AddOpenAIFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("model", "m", "", "OpenAI model used to enhance transcripts")
	cmd.Flags().StringP("prompt", "p", "", "Custom prompt (string or file path)")
}

// AddBuildFlags adds the batch run controls
func AddBuildFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("force", false, "Enhance transcripts again even when an improved copy exists")
	cmd.Flags().Int("limit", 0, "Stop after this many videos (0 for the whole channel)")
	cmd.Flags().Bool("dry-run", false, "List what would be built without writing pages")
	cmd.Flags().String("lister", "", "Channel lister: innertube or rss")
}

// AddOutputFlags adds the output destination flags shared by search and concat
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Write the result to this file")
	cmd.Flags().BoolP("copy", "c", false, "Copy the result to the clipboard")
}

// BuildOptionsFromFlags reads the flags added by AddBuildFlags
func BuildOptionsFromFlags(cmd *cobra.Command) (BuildOptions, error) {
	var opts BuildOptions
	var err error
	if opts.Force, err = cmd.Flags().GetBool("force"); err != nil {
		return opts, fmt.Errorf("failed to get force flag: %w", err)
	}
	if opts.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return opts, fmt.Errorf("failed to get limit flag: %w", err)
	}
	if opts.Limit < 0 {
		return opts, fmt.Errorf("--limit must not be negative")
	}
	if opts.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return opts, fmt.Errorf("failed to get dry-run flag: %w", err)
	}
	return opts, nil
}

// HandlePromptFlag processes the --prompt flag to set custom prompt
func HandlePromptFlag(cmd *cobra.Command, app *App) error {
	// Check if prompt flag was explicitly set
	promptFlag := cmd.Flags().Lookup("prompt")
	if promptFlag == nil || !promptFlag.Changed {
		return nil
	}

	prompt, err := cmd.Flags().GetString("prompt")
	if err != nil {
		return fmt.Errorf("failed to get prompt flag: %w", err)
	}

	// If prompt is empty, nothing to do
	if prompt == "" {
		return nil
	}

	app.SetPromptManager(NewPromptManager(app.config.ConfigDir, prompt))

	if IsLikelyFilePath(prompt) && FileExists(prompt) {
		app.ui.Verbose("Using custom prompt file: %s\n", prompt)
	} else {
		app.ui.Verbose("Using custom prompt string\n")
	}

	return nil
}

// HandleModelFlag overrides the configured model when --model is given
func HandleModelFlag(cmd *cobra.Command, config *Config) error {
	model, err := cmd.Flags().GetString("model")
	if err != nil {
		return fmt.Errorf("failed to get model flag: %w", err)
	}
	if model != "" {
		config.Model = model
	}
	if config.Model == "" {
		return fmt.Errorf("no model configured - set model in config.toml or pass --model")
	}
	return nil
}

// HandleListerFlag overrides the configured channel lister when --lister is given
func HandleListerFlag(cmd *cobra.Command, config *Config) error {
	lister, err := cmd.Flags().GetString("lister")
	if err != nil {
		return fmt.Errorf("failed to get lister flag: %w", err)
	}
	if lister != "" {
		config.Lister = lister
	}
	return nil
}

// HandleVerboseFlag processes the --verbose flag to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	config.Verbose = verbose
	return nil
}
