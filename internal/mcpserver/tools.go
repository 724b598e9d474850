package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/core"
)

const (
	defaultLogLimit = 20
	maxLogLimit     = 200
)

// toolset binds the dashboard services to MCP tool handlers.
type toolset struct {
	services    *core.Services
	granularity backend.Granularity
	days        int
}

// Tools returns the read-only dashboard tools. granularity and days are the
// backup_activity defaults.
func Tools(services *core.Services, granularity backend.Granularity, days int) []server.ServerTool {
	t := &toolset{services: services, granularity: granularity, days: days}

	readOnly := []mcp.ToolOption{
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
	}
	tool := func(name, desc string, opts ...mcp.ToolOption) mcp.Tool {
		all := append([]mcp.ToolOption{mcp.WithDescription(desc)}, opts...)
		return mcp.NewTool(name, append(all, readOnly...)...)
	}

	return []server.ServerTool{
		{
			Tool:    tool("dashboard_stats", "Total backups, success rate, data protected and number of active alerts."),
			Handler: t.dashboardStats,
		},
		{
			Tool:    tool("list_machines", "All protected machines with status and storage usage, ordered by name."),
			Handler: t.listMachines,
		},
		{
			Tool: tool("recent_logs", "Most recent backup runs, newest first, with machine and job names.",
				mcp.WithNumber("limit",
					mcp.Description(fmt.Sprintf("Number of runs to return (default %d, max %d)", defaultLogLimit, maxLogLimit)),
					mcp.Min(1),
					mcp.Max(maxLogLimit),
				),
			),
			Handler: t.recentLogs,
		},
		{
			Tool:    tool("unresolved_alerts", "System alerts that have not been resolved, newest first."),
			Handler: t.unresolvedAlerts,
		},
		{
			Tool:    tool("list_backup_jobs", "Configured backup jobs with schedule, targets and retention."),
			Handler: t.listBackupJobs,
		},
		{
			Tool: tool("backup_activity", "Backup runs per outcome (success, failed, warning) in time buckets, oldest first.",
				mcp.WithString("granularity",
					mcp.Description("Bucket width (default "+string(granularity)+")"),
					mcp.Enum(string(backend.GranularityHour), string(backend.GranularityDay)),
				),
				mcp.WithNumber("days",
					mcp.Description(fmt.Sprintf("Window length in days (default %d)", days)),
					mcp.Min(1),
				),
			),
			Handler: t.backupActivity,
		},
	}
}

func (t *toolset) dashboardStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.services.Stats.Compute(ctx))
}

func (t *toolset) listMachines(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.services.Machine.List(ctx))
}

func (t *toolset) recentLogs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := min(req.GetInt("limit", defaultLogLimit), maxLogLimit)
	return jsonResult(t.services.BackupLog.ListRecent(ctx, limit))
}

func (t *toolset) unresolvedAlerts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.services.Alert.ListUnresolved(ctx))
}

func (t *toolset) listBackupJobs(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.services.BackupJob.List(ctx))
}

func (t *toolset) backupActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g := backend.Granularity(req.GetString("granularity", string(t.granularity)))
	days := req.GetInt("days", t.days)
	return jsonResult(t.services.Activity.Series(ctx, g, days))
}

// jsonResult reports service errors as tool errors so the model sees them;
// only an unencodable result fails the call itself.
func jsonResult[T any](v T, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
