package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/shell/docker"
	"github.com/mvre-project/mvre-hub/internal/shell/exectool"
	"github.com/mvre-project/mvre-hub/internal/shell/lifecycle"
	"github.com/mvre-project/mvre-hub/internal/shell/state"
	"github.com/mvre-project/mvre-hub/internal/shell/synth"
	"github.com/mvre-project/mvre-hub/internal/shell/systemd"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app is the state shared by all commands of one invocation.
type app struct {
	cfg          *Config
	v            *viper.Viper
	logger       *slog.Logger
	store        *state.Store
	state        *domain.AppState
	orchestrator *lifecycle.Orchestrator
	stdout       io.Writer
	stderr       io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Parse global flags up to the command name
	global := pflag.NewFlagSet("mvre-hub", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	verbosity := global.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	configPath := global.String("config", "", "Path to config file")
	showVersion := global.Bool("version", false, "Print version and exit")
	global.Usage = func() { fmt.Fprint(stderr, usage()) }

	if err := global.Parse(args); err != nil {
		return exitCodeOrUsage(err)
	}

	if *showVersion {
		printVersion(stdout)
		return ExitSuccess
	}

	if global.NArg() == 0 {
		fmt.Fprint(stderr, usage())
		return ExitUsageError
	}
	name := global.Arg(0)
	cmd, ok := findCommand(name)
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", name, usage())
		return ExitUsageError
	}
	if cmd.run == nil {
		printVersion(stdout)
		return ExitSuccess
	}

	// Command flags; global flags are accepted after the command too
	fs := pflag.NewFlagSet("mvre-hub "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.AddFlagSet(global)
	bindings := cmd.define(fs)
	if err := fs.Parse(global.Args()[1:]); err != nil {
		return exitCodeOrUsage(err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		return ExitUsageError
	}

	// Load configuration
	cfg, v, err := LoadConfig(*configPath, fs, bindings)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	// Setup logger
	logger := SetupLogger(cfg, *verbosity, stderr)
	logger.Debug("starting mvre-hub",
		"version", Version,
		"command", name,
		"config", *configPath,
	)

	a, err := newApp(cfg, v, logger, stdout, stderr)
	if err != nil {
		return fail(stderr, logger, commandError(name, err))
	}

	if err := cmd.run(ctx, a, fs); err != nil {
		return fail(stderr, logger, commandError(name, err))
	}
	return ExitSuccess
}

// newApp loads the state once and wires the orchestrator around it.
func newApp(cfg *Config, v *viper.Viper, logger *slog.Logger, stdout, stderr io.Writer) (*app, error) {
	store, err := state.Open()
	if err != nil {
		return nil, err
	}
	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	logger.Debug("state loaded", "path", store.Path(), "last_deploy_dir", st.LastDeployDir)

	a := &app{
		cfg:    cfg,
		v:      v,
		logger: logger,
		store:  store,
		state:  &st,
		stdout: stdout,
		stderr: stderr,
	}

	compose := &exectool.ExecRunner{Command: cfg.Compose.Args(), Stdout: stdout, Stderr: stderr}
	a.orchestrator = lifecycle.New(lifecycle.Config{
		State:   a.state,
		Store:   store,
		Compose: compose,
		Synth:   synth.New(logger),
		Service: &systemd.Integrator{
			UnitPath:       cfg.Systemd.UnitPath,
			UnitName:       cfg.Systemd.UnitName,
			ComposeCommand: cfg.Compose.Args(),
			Systemctl:      &exectool.ExecRunner{Command: []string{cfg.Systemd.Systemctl}, Stdout: stderr, Stderr: stderr},
			Logger:         logger,
		},
		Docker: func(ctx context.Context) (docker.Client, error) {
			return docker.NewDockerClient(ctx, cfg.Docker.Host)
		},
		DefaultDir: cfg.Deploy.DefaultDir,
		Out:        stdout,
		Logger:     logger,
	})
	return a, nil
}

func fail(stderr io.Writer, logger *slog.Logger, err *CommandError) int {
	logger.Debug("command failed", "operation", err.Op, "error", err.Err, "exit_code", err.ExitCode)
	fmt.Fprintf(stderr, "Error: %v\n", err.Err)
	return err.ExitCode
}

func exitCodeOrUsage(err error) int {
	if errors.Is(err, pflag.ErrHelp) {
		return ExitSuccess
	}
	return ExitUsageError
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "mvre-hub %s (built %s)\n", Version, BuildTime)
}
