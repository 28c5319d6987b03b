// Package mcpserver exposes keyword extraction as a Model Context Protocol
// tool.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/ingest"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
)

const (
	serverName   = "wordcloud"
	toolName     = "extract_keywords"
	maxWordsCap  = 500
	defaultTitle = "Untitled Article"
	instructions = "This server extracts weighted keywords from article text for word-cloud rendering. Call extract_keywords with the article text."
	toolDesc     = "Extract the most significant keywords of an article. Returns words with weights in (0, 1] (the top word is 1), their frequencies, the total word count and the ranking strategy used (tfidf or frequency)."
)

type extractKeywordsArgs struct {
	Text     string `json:"text" jsonschema:"Article text to analyze"`
	Title    string `json:"title,omitempty" jsonschema:"Article title echoed in the result"`
	MaxWords int    `json:"max_words,omitempty" jsonschema:"Maximum number of keywords to return (1-500). Leave empty for the server default."`
}

// New creates an MCP server with the extract_keywords tool backed by svc.
func New(svc *service.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, &mcp.ServerOptions{Instructions: instructions})
	addExtractKeywordsTool(server, svc)
	return server
}

// Run serves over stdio until the client disconnects or ctx is done.
func Run(ctx context.Context, svc *service.Service, version string) error {
	logger.FromContext(ctx).Info("Starting MCP server", "transport", "stdio")
	if err := New(svc, version).Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func addExtractKeywordsTool(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        toolName,
		Description: toolDesc,
	}, func(ctx context.Context, _ *mcp.CallToolRequest, args extractKeywordsArgs) (*mcp.CallToolResult, any, error) {
		if args.MaxWords < 0 || args.MaxWords > maxWordsCap {
			return toolError(fmt.Sprintf("max_words must be between 1 and %d", maxWordsCap)), nil, nil
		}
		title := args.Title
		if title == "" {
			title = defaultTitle
		}
		art, err := svc.AnalyzeDocument(ctx, ingest.Document{Title: title, Text: args.Text}, args.MaxWords)
		if err != nil {
			logger.FromContext(ctx).Warn("Keyword extraction failed", "error", err)
			return toolError(err.Error()), nil, nil
		}

		resultJSON, err := json.MarshalIndent(art, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal result: %w", err)
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(resultJSON)},
			},
		}, nil, nil
	})
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
