package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/model"
)

const (
	maxCellWidth = 60
	chartHeight  = 12
)

var (
	successBar = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warningBar = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failedBar  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(lipgloss.Color("86")).
					Bold(true).
					Align(lipgloss.Center)
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		}).
		Headers(headers...)
}

func statusColor(status string) lipgloss.Color {
	switch status {
	case model.LogStatusSuccess, model.MachineStatusOnline:
		return lipgloss.Color("10")
	case model.LogStatusFailed, model.MachineStatusOffline, model.SeverityCritical:
		return lipgloss.Color("9")
	case model.LogStatusWarning:
		return lipgloss.Color("11")
	case model.MachineStatusBackupInProgress, model.SeverityInfo:
		return lipgloss.Color("14")
	}
	return lipgloss.Color("252")
}

func styledStatus(status string) string {
	return lipgloss.NewStyle().Foreground(statusColor(status)).Render(status)
}

func relTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, titleStyle.Render("==> "+fmt.Sprintf(format, args...)))
	fmt.Fprintln(w)
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", label)), valueStyle.Render(value))
}

func renderStats(w io.Writer, s *model.DashboardStats) {
	heading(w, "backup overview")
	field(w, "total backups", humanize.Comma(int64(s.TotalBackups)))
	field(w, "success rate", fmt.Sprintf("%d%%", s.SuccessRate))
	field(w, "data protected", s.TotalDataProtected)

	alerts := fmt.Sprintf("%d", s.ActiveAlerts)
	if s.ActiveAlerts > 0 {
		alerts = errorStyle.Render(alerts)
	}
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-16s", "active alerts")), alerts)
	fmt.Fprintln(w)
}

func renderMachines(w io.Writer, machines []model.Machine, now time.Time) {
	if len(machines) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no machines reported"))
		return
	}

	heading(w, "machines (%d)", len(machines))

	rows := make([][]string, 0, len(machines))
	for _, m := range machines {
		lastSeen := "never"
		if m.LastSeen != nil {
			lastSeen = relTime(*m.LastSeen, now)
		}
		rows = append(rows, []string{
			m.Name,
			styledStatus(m.Status),
			m.IPAddress,
			m.OS,
			m.StorageSummary(),
			fmt.Sprintf("%d%%", m.StorageUsedPercent()),
			lastSeen,
		})
	}

	fmt.Fprintln(w, newTable("name", "status", "ip", "os", "storage", "used", "last seen").Rows(rows...))
	fmt.Fprintln(w)
}

func renderLogs(w io.Writer, logs []model.BackupLog, now time.Time) {
	if len(logs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no backup runs recorded"))
		return
	}

	heading(w, "recent backups (%d)", len(logs))

	rows := make([][]string, 0, len(logs))
	var total int64
	for _, l := range logs {
		total += l.SizeMB
		rows = append(rows, []string{
			relTime(l.CreatedAt, now),
			l.MachineName,
			l.JobName,
			styledStatus(l.Status),
			core.FormatDataSize(l.SizeMB),
			(time.Duration(l.DurationSeconds) * time.Second).String(),
			truncate(l.Message, maxCellWidth),
		})
	}

	fmt.Fprintln(w, newTable("when", "machine", "job", "status", "size", "duration", "message").Rows(rows...))
	fmt.Fprintln(w)
	fmt.Fprintln(w, dimStyle.Render("  total: "+core.FormatDataSize(total)))
	fmt.Fprintln(w)
}

func renderAlerts(w io.Writer, alerts []model.Alert, now time.Time) {
	if len(alerts) == 0 {
		fmt.Fprintln(w, successStyle.Render("no unresolved alerts"))
		return
	}

	heading(w, "unresolved alerts (%d)", len(alerts))

	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			styledStatus(a.Severity),
			a.Title,
			truncate(a.Description, maxCellWidth),
			relTime(a.CreatedAt, now),
		})
	}

	fmt.Fprintln(w, newTable("severity", "title", "description", "raised").Rows(rows...))
	fmt.Fprintln(w)
}

func renderJobs(w io.Writer, jobs []model.BackupJob) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no backup jobs defined"))
		return
	}

	heading(w, "backup jobs (%d)", len(jobs))

	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		active := dimStyle.Render("no")
		if j.IsActive {
			active = successStyle.Render("yes")
		}
		rows = append(rows, []string{
			j.Name,
			j.MachineID,
			j.ScheduleCron,
			truncate(strings.Join(j.TargetDirectories, ", "), maxCellWidth),
			fmt.Sprintf("%dd", j.RetentionDays),
			active,
		})
	}

	fmt.Fprintln(w, newTable("name", "machine", "schedule", "targets", "retention", "active").Rows(rows...))
	fmt.Fprintln(w)
}

func renderProfile(w io.Writer, p *model.UserProfile) {
	heading(w, "profile")
	field(w, "id", p.ID)
	field(w, "email", p.Email)
	if p.FullName != "" {
		field(w, "name", p.FullName)
	}
	if p.Role != "" {
		field(w, "role", p.Role)
	}
	if p.AvatarURL != "" {
		field(w, "avatar", p.AvatarURL)
	}
	fmt.Fprintln(w)
}

func bucketLabel(start time.Time, g backend.Granularity) string {
	if g == backend.GranularityHour {
		return start.UTC().Format("15")
	}
	return start.UTC().Format("01-02")
}

// renderActivity draws one stacked bar per bucket followed by a legend with
// the totals for the whole period.
func renderActivity(w io.Writer, buckets []model.ActivityBucket, g backend.Granularity) {
	var success, warning, failed int
	for _, b := range buckets {
		success += b.Success
		warning += b.Warning
		failed += b.Failed
	}

	heading(w, "backup activity by %s (%d buckets)", g, len(buckets))

	if success+warning+failed == 0 {
		fmt.Fprintln(w, dimStyle.Render("no backup runs in this period"))
		return
	}

	barWidth := 5
	if g == backend.GranularityHour {
		barWidth = 2
	}

	data := make([]barchart.BarData, 0, len(buckets))
	for _, b := range buckets {
		data = append(data, barchart.BarData{
			Label: bucketLabel(b.Start, g),
			Values: []barchart.BarValue{
				{Name: model.LogStatusSuccess, Value: float64(b.Success), Style: successBar},
				{Name: model.LogStatusWarning, Value: float64(b.Warning), Style: warningBar},
				{Name: model.LogStatusFailed, Value: float64(b.Failed), Style: failedBar},
			},
		})
	}

	bc := barchart.New(len(buckets)*(barWidth+1), chartHeight, barchart.WithBarGap(1))
	bc.PushAll(data)
	bc.Draw()

	fmt.Fprintln(w, bc.View())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %d   %s %d   %s %d\n",
		successBar.Render("■ success"), success,
		warningBar.Render("■ warning"), warning,
		failedBar.Render("■ failed"), failed)
	fmt.Fprintln(w)
}
