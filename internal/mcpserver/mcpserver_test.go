package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/config"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/logger"
	"github.com/DINAL11/3D-Word-Cloud-Dinal/internal/service"
)

const catText = "The cat sat on the mat. The cat was happy. A happy cat purrs."

func connect(t *testing.T) (context.Context, *mcp.ClientSession) {
	t.Helper()
	ctx := logger.ContextWithLogger(t.Context(), logger.NewLogger(logger.TestConfig()))
	svc, err := service.New(config.Default(), nil)
	require.NoError(t, err)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := New(svc, "test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return ctx, cs
}

func call(t *testing.T, ctx context.Context, cs *mcp.ClientSession, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: toolName, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestListTools(t *testing.T) {
	ctx, cs := connect(t)
	res, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, toolName, res.Tools[0].Name)
	assert.NotNil(t, res.Tools[0].InputSchema)
}

func TestExtractKeywordsTool(t *testing.T) {
	t.Run("Should return the analysis as JSON", func(t *testing.T) {
		ctx, cs := connect(t)
		res := call(t, ctx, cs, map[string]any{"text": catText, "title": "Cats", "max_words": 2})
		require.False(t, res.IsError, text(t, res))

		var got struct {
			Words []struct {
				Word      string  `json:"word"`
				Weight    float64 `json:"weight"`
				Frequency int     `json:"frequency"`
			} `json:"words"`
			Title     string `json:"article_title"`
			WordCount int    `json:"word_count"`
			Strategy  string `json:"strategy"`
		}
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &got))
		assert.Equal(t, "Cats", got.Title)
		assert.Equal(t, 14, got.WordCount)
		assert.Equal(t, "tfidf", got.Strategy)
		require.Len(t, got.Words, 2)
		assert.Equal(t, "happy", got.Words[0].Word)
		assert.Equal(t, 1.0, got.Words[0].Weight)
	})

	t.Run("Should default the title", func(t *testing.T) {
		ctx, cs := connect(t)
		res := call(t, ctx, cs, map[string]any{"text": "Quick brown fox."})
		require.False(t, res.IsError)
		assert.Contains(t, text(t, res), defaultTitle)
	})

	t.Run("Should report analysis errors as tool errors", func(t *testing.T) {
		ctx, cs := connect(t)
		res := call(t, ctx, cs, map[string]any{"text": "the a an is of"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "no keywords extracted")
	})

	t.Run("Should reject out of range max_words", func(t *testing.T) {
		ctx, cs := connect(t)
		res := call(t, ctx, cs, map[string]any{"text": catText, "max_words": 501})
		assert.True(t, res.IsError)
		assert.Contains(t, text(t, res), "max_words")
	})
}
