package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edvin/backupdash/internal/export"
)

var errExportUnconfigured = errors.New("S3 export not configured: set EXPORT_S3_BUCKET")

type uploader interface {
	Upload(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

func newS3Uploader(e *env) uploader {
	return export.NewS3Uploader(e.cfg.Export, e.logger)
}

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export dashboard data as CSV",
	}
	cmd.AddCommand(newExportLogsCommand(a))
	return cmd
}

func newExportLogsCommand(a *app) *cobra.Command {
	var (
		limit   int
		outPath string
		toS3    bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Export recent backup runs as CSV",
		Long: "Export recent backup runs as CSV to stdout, a file (--out) or the\n" +
			"configured S3 bucket (--s3).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			e, err := a.environment(cmd.Context())
			if err != nil {
				return err
			}
			if toS3 && !e.cfg.ExportEnabled() {
				return errExportUnconfigured
			}

			logs, err := e.services.BackupLog.ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := export.WriteLogsCSV(&buf, logs); err != nil {
				return err
			}

			switch {
			case toS3:
				location, err := a.newUploader(e).Upload(cmd.Context(), export.LogsFilename(a.now()), buf.Bytes(), "text/csv")
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, successStyle.Render(fmt.Sprintf("uploaded %d runs to %s", len(logs), location)))
			case outPath != "" && outPath != "-":
				if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				fmt.Fprintln(a.out, successStyle.Render(fmt.Sprintf("wrote %d runs to %s", len(logs), outPath)))
			default:
				if _, err := a.out.Write(buf.Bytes()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 200, "number of runs to export")
	cmd.Flags().StringVar(&outPath, "out", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&toS3, "s3", false, "upload to the configured S3 bucket")
	cmd.MarkFlagsMutuallyExclusive("out", "s3")
	return cmd
}
