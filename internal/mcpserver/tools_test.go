package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/backend/backendtest"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/model"
)

func newTools(t *testing.T) (map[string]server.ServerTool, *backendtest.Store) {
	t.Helper()
	client, store, _ := backendtest.NewClient()
	services := core.NewServices(client, core.Options{})

	byName := make(map[string]server.ServerTool)
	for _, st := range Tools(services, backend.GranularityDay, 7) {
		byName[st.Tool.Name] = st
	}
	return byName, store
}

func call(t *testing.T, tool server.ServerTool, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = tool.Tool.Name
	req.Params.Arguments = args
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestTools_Names(t *testing.T) {
	tools, _ := newTools(t)

	for _, name := range []string{
		"dashboard_stats", "list_machines", "recent_logs",
		"unresolved_alerts", "list_backup_jobs", "backup_activity",
	} {
		tool, ok := tools[name]
		require.True(t, ok, name)
		require.NotNil(t, tool.Tool.Annotations.ReadOnlyHint, name)
		assert.True(t, *tool.Tool.Annotations.ReadOnlyHint, name)
	}
	assert.Len(t, tools, 6)
}

func TestListMachines(t *testing.T) {
	tools, store := newTools(t)
	store.On("Select", mock.Anything, backendtest.ForTable(backend.TableMachines)).
		Return(`[{"id":"m-1","name":"alpha"}]`, nil)

	res := call(t, tools["list_machines"], nil)
	assert.False(t, res.IsError)

	var got []model.Machine
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Name)
}

func TestRecentLogs_LimitIsCapped(t *testing.T) {
	tools, store := newTools(t)
	store.On("Select", mock.Anything, mock.MatchedBy(func(q backend.Query) bool {
		return q.Table == backend.TableBackupLogs && q.Limit == maxLogLimit
	})).Return(`[]`, nil)

	res := call(t, tools["recent_logs"], map[string]any{"limit": 5000})
	assert.False(t, res.IsError)
	assert.Equal(t, "[]", resultText(t, res))
	store.AssertExpectations(t)
}

func TestRecentLogs_DefaultLimit(t *testing.T) {
	tools, store := newTools(t)
	store.On("Select", mock.Anything, mock.MatchedBy(func(q backend.Query) bool {
		return q.Limit == defaultLogLimit
	})).Return(`[]`, nil)

	res := call(t, tools["recent_logs"], nil)
	assert.False(t, res.IsError)
	store.AssertExpectations(t)
}

func TestRecentLogs_InvalidLimitIsToolError(t *testing.T) {
	tools, store := newTools(t)

	res := call(t, tools["recent_logs"], map[string]any{"limit": 0})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid input")
	assert.Empty(t, store.Calls)
}

func TestBackupActivity(t *testing.T) {
	tools, store := newTools(t)
	store.On("CountBuckets", mock.Anything, mock.MatchedBy(func(q backend.BucketQuery) bool {
		return q.Granularity == backend.GranularityHour
	})).Return([]backend.BucketCount{}, nil)

	res := call(t, tools["backup_activity"], map[string]any{"granularity": "hour", "days": 1})
	assert.False(t, res.IsError)

	var got []model.ActivityBucket
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Len(t, got, 24)
}

func TestDashboardStats_BackendError(t *testing.T) {
	tools, store := newTools(t)
	store.On("Count", mock.Anything, mock.Anything, mock.Anything).
		Return(0, &backend.Error{Op: "count", Table: "backup_logs", StatusCode: 500, Message: "boom"})
	store.On("Sum", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)

	res := call(t, tools["dashboard_stats"], nil)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "boom")
}
