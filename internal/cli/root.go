// Package cli implements the backupdash terminal client.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/config"
	"github.com/edvin/backupdash/internal/core"
	"github.com/edvin/backupdash/internal/db"
	"github.com/edvin/backupdash/internal/logging"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true)
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// env is everything a command needs once the configuration is loaded.
type env struct {
	cfg      *config.Config
	logger   zerolog.Logger
	client   *backend.Client
	services *core.Services
	close    func()
}

type app struct {
	configPath string
	output     string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	openEnv      func(ctx context.Context, a *app) (*env, error)
	readPassword func(a *app, prompt string) (string, error)
	newUploader  func(e *env) uploader

	env *env
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:           in,
		out:          out,
		errOut:       errOut,
		now:          time.Now,
		openEnv:      openEnv,
		readPassword: readPassword,
		newUploader:  newS3Uploader,
	}
}

func openEnv(ctx context.Context, a *app) (*env, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLoggerTo(a.errOut, cfg)

	b, err := db.NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	services := core.NewServices(b.Client, core.Options{
		ResetRedirectURL:    cfg.ResetRedirectURL,
		ActivityGranularity: backend.Granularity(cfg.ActivityGranularity),
		ActivityDays:        cfg.ActivityDays,
	})

	return &env{
		cfg:      cfg,
		logger:   logger,
		client:   b.Client,
		services: services,
		close:    b.Close,
	}, nil
}

// environment opens the backend on first use. Commands that never touch the
// backend, like logout, never pay for a connection.
func (a *app) environment(ctx context.Context) (*env, error) {
	if a.env != nil {
		return a.env, nil
	}

	e, err := a.openEnv(ctx, a)
	if err != nil {
		return nil, err
	}
	if !e.client.Configured() {
		fmt.Fprintln(a.errOut, warnStyle.Render("[warn] "+backend.ErrUnconfigured.Error()))
	}
	a.env = e
	return e, nil
}

func (a *app) close() {
	if a.env != nil && a.env.close != nil {
		a.env.close()
	}
}

func (a *app) jsonOutput() bool {
	return a.output == outputJSON
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "backupdash",
		Short: "Backup monitoring from the terminal",
		Long: titleStyle.Render("backupdash") + "\n" +
			dimStyle.Render("backup monitoring dashboard") + "\n\n" +
			"Reads machines, backup runs, alerts and activity from the configured backend.\n" +
			"Settings come from --config and the same environment variables as the API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.output != outputTable && a.output != outputJSON {
				return fmt.Errorf("unknown output format %q (want table or json)", a.output)
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to a YAML config file")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table or json")

	root.AddCommand(
		newStatsCommand(a),
		newMachinesCommand(a),
		newLogsCommand(a),
		newAlertsCommand(a),
		newJobsCommand(a),
		newActivityCommand(a),
		newProfileCommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newResetPasswordCommand(a),
		newExportCommand(a),
	)

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root
}

// Execute runs the CLI against the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	defer a.close()

	if err := newRootCommand(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("[error] "+err.Error()))
		return 1
	}
	return 0
}
