package internal

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"ythelp-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("search_help_videos",
		mcp.WithDescription("Search the help channel for videos matching keywords. Returns title, watch URL and description of each hit. Uses the YouTube Data API quota."),
		mcp.WithString("query",
			mcp.Description("Keywords, e.g. 'créer une facture'"),
			mcp.Required(),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of videos to return (default 5)"),
		),
	), s.handleSearch)

	s.mcpServer.AddTool(mcp.NewTool("list_help_pages",
		mcp.WithDescription("List the help pages referenced by the RoboHelp table of contents."),
	), s.handleListPages)

	s.mcpServer.AddTool(mcp.NewTool("get_video_transcript",
		mcp.WithDescription("Get the raw captions of a video as plain text, from the local cache when available."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
	), s.handleGetTranscript)
}

func (s *MCPServer) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", DefaultSearchResults)
	s.app.logInfo("mcp tool call", "tool", "search_help_videos", "query", query)

	videos, err := s.app.Search(ctx, query, int64(maxResults))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("search failed", err), nil
	}
	if len(videos) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No videos found for %q", query)), nil
	}

	var buf strings.Builder
	for i, v := range videos {
		fmt.Fprintf(&buf, "%d. %s\n   %s\n", i+1, v.Title, v.URL)
		if v.Description != "" {
			fmt.Fprintf(&buf, "   %s\n", v.Description)
		}
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *MCPServer) handleListPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.app.logInfo("mcp tool call", "tool", "list_help_pages")

	pages, err := s.app.TOC().Pages()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("reading table of contents", err), nil
	}
	return mcp.NewToolResultText(strings.Join(pages, "\n")), nil
}

func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	_, videoID, err := ParseVideoArg(url)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("invalid video", err), nil
	}
	s.app.logInfo("mcp tool call", "tool", "get_video_transcript", "video_id", videoID)

	transcript, err := s.app.GetTranscript(ctx, videoID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("no captions available", err), nil
	}
	return mcp.NewToolResultText(transcript), nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}
