package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/rtzll/ythelp/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing channel search, TOC and transcripts",
	Long: `Run a Model Context Protocol (MCP) server that exposes ythelp functionality as tools.

The MCP server provides three tools:
- search_help_videos: Keyword search on the help channel
- list_help_pages: Pages referenced by the RoboHelp table of contents
- get_video_transcript: Raw captions of a video, cached locally

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  ythelp mcp

  # Run MCP server with HTTP transport on port 8080
  ythelp mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  ythelp mcp setup-claude`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// MCP uses stdio protocol, so keep the terminal quiet
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// tool calls and failures go to the error log since stdout belongs to the protocol
		errLog, err := internal.OpenErrorLog(config.ErrorLog)
		if err != nil {
			return err
		}
		defer errLog.Close()

		app := internal.NewApp(config, internal.WithErrorLog(errLog))
		mcpServer := internal.NewMCPServer(app, version)

		if transport == "http" {
			errLog.Info("starting MCP server", "transport", transport, "port", port)
		}

		// Start the server (this will block until context is cancelled)
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

// setupClaudeCmd represents the setup-claude subcommand
var setupClaudeCmd = &cobra.Command{
	Use:   "setup-claude",
	Short: "Configure Claude Desktop to use the ythelp MCP server",
	Long: `Add a ythelp entry to Claude Desktop's claude_desktop_config.json, keeping
the other MCP servers. The server runs from the current working directory so
the RoboHelp project paths and key files resolve as they do here.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setupClaudeDesktop()
	},
}

// desktopConfig is the part of claude_desktop_config.json ythelp edits.
// Other top-level keys are kept as raw JSON.
type desktopConfig struct {
	MCPServers map[string]desktopServer `json:"mcpServers"`
	rest       map[string]json.RawMessage
}

type desktopServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Cwd     string            `json:"cwd,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// claudeDesktopConfigPath is Claude/claude_desktop_config.json under the
// platform's user config directory
func claudeDesktopConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "Claude", "claude_desktop_config.json"), nil
}

func setupClaudeDesktop() error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("getting executable path: %w", err)
	}
	if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	path, err := claudeDesktopConfigPath()
	if err != nil {
		return fmt.Errorf("locating Claude Desktop config: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config for Claude Desktop not found at %s: %w", path, err)
	}

	var desktop desktopConfig
	if err := json.Unmarshal(data, &desktop.rest); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	if raw, ok := desktop.rest["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &desktop.MCPServers); err != nil {
			return fmt.Errorf("parsing mcpServers in %s: %w", path, err)
		}
	}
	if desktop.MCPServers == nil {
		desktop.MCPServers = make(map[string]desktopServer)
	}

	desktop.MCPServers["ythelp"] = desktopServer{
		Command: execPath,
		Args:    []string{"mcp"},
		Cwd:     workDir,
		Env:     map[string]string{"XDG_CONFIG_HOME": xdg.ConfigHome},
	}

	servers, err := json.Marshal(desktop.MCPServers)
	if err != nil {
		return err
	}
	if desktop.rest == nil {
		desktop.rest = make(map[string]json.RawMessage)
	}
	desktop.rest["mcpServers"] = servers

	out, err := json.MarshalIndent(desktop.rest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Printf("Added ythelp to %s\n", path)
	fmt.Println("Restart Claude Desktop to use the ythelp MCP server")
	return nil
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	mcpCmd.AddCommand(setupClaudeCmd)
	rootCmd.AddCommand(mcpCmd)
}
