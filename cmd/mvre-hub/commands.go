package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mvre-project/mvre-hub/internal/core/deployment"
	"github.com/mvre-project/mvre-hub/internal/shell/lifecycle"
	"github.com/mvre-project/mvre-hub/internal/shell/prompt"
)

// =============================================================================
// Command Table
// =============================================================================

// command is one subcommand. define registers its flags and returns the
// configuration keys they are bound to.
type command struct {
	name    string
	summary string
	define  func(fs *pflag.FlagSet) map[string]string
	run     func(ctx context.Context, a *app, fs *pflag.FlagSet) error
}

var commands = []command{
	{
		name:    "deploy",
		summary: "Write a new deployment directory",
		define:  defineDeployFlags,
		run:     runDeploy,
	},
	{
		name:    "start",
		summary: "Build images and start the services",
		define:  defineDirFlag,
		run: func(ctx context.Context, a *app, fs *pflag.FlagSet) error {
			return a.orchestrator.Start(ctx, stringFlag(fs, "dir"))
		},
	},
	{
		name:    "stop",
		summary: "Stop the services",
		define:  defineDirFlag,
		run: func(ctx context.Context, a *app, fs *pflag.FlagSet) error {
			return a.orchestrator.Stop(ctx, stringFlag(fs, "dir"))
		},
	},
	{
		name:    "status",
		summary: "Show the service status",
		define:  defineDirFlag,
		run: func(ctx context.Context, a *app, fs *pflag.FlagSet) error {
			out, err := a.orchestrator.Status(ctx, stringFlag(fs, "dir"))
			if err != nil {
				return err
			}
			fmt.Fprint(a.stdout, out)
			return nil
		},
	},
	{
		name:    "clean",
		summary: "Remove the deployment, its images and volumes",
		define: func(fs *pflag.FlagSet) map[string]string {
			defineDirFlag(fs)
			fs.Bool("full-ice", false, "Confirm destructive cleanup")
			return nil
		},
		run: func(ctx context.Context, a *app, fs *pflag.FlagSet) error {
			confirmed, _ := fs.GetBool("full-ice")
			return a.orchestrator.Clean(ctx, stringFlag(fs, "dir"), confirmed)
		},
	},
	{
		name:    "doctor",
		summary: "Check the tools, the daemon and the deployment",
		define:  defineDirFlag,
		run: func(ctx context.Context, a *app, fs *pflag.FlagSet) error {
			report, err := a.orchestrator.Doctor(ctx, stringFlag(fs, "dir"))
			if err != nil {
				return err
			}
			_, err = report.WriteTo(a.stdout)
			return err
		},
	},
	{
		name:    "version",
		summary: "Print version information",
		define:  func(*pflag.FlagSet) map[string]string { return nil },
	},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage() string {
	var b strings.Builder
	b.WriteString("Usage: mvre-hub [-v|-vv] [--config FILE] <command> [flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "  %-8s %s\n", c.name, c.summary)
	}
	b.WriteString("\nRun 'mvre-hub <command> --help' for command flags.\n")
	return b.String()
}

// =============================================================================
// Flags
// =============================================================================

func defineDirFlag(fs *pflag.FlagSet) map[string]string {
	fs.String("dir", "", "Deployment directory (default: last deployment)")
	return nil
}

// deployInputFlags are the deploy answers that can be given as flags.
var deployInputFlags = []struct {
	name  string
	usage string
}{
	{"dir", "Deployment directory"},
	{"domain", "Public domain name of the hub"},
	{"acme-email", "Contact email for TLS certificates"},
	{"client-id", "OAuth client ID"},
	{"client-secret", "OAuth client secret"},
	{"dataset-path", "Host path of the dataset"},
	{"shared-path", "Host path of the shared notebooks"},
	{"admin-users", "Comma-separated hub admin users"},
	{"oauth-authorize-url", "OAuth authorize URL"},
	{"oauth-token-url", "OAuth token URL"},
	{"oauth-userdata-url", "OAuth userinfo URL"},
	{"db-password", "Postgres password (production only)"},
}

// deploySwitches are the deploy booleans. They are bound to configuration
// too, so MVRE_HUB_DEPLOY_PRODUCTION=true works.
var deploySwitches = []struct {
	name  string
	usage string
}{
	{"force", "Replace an existing deployment"},
	{"production", "Use the production profile (Postgres, limits, culling)"},
	{"install-notebooks", "Install the starter notebooks into the shared path"},
	{"allow-missing-dataset", "Continue when the dataset path does not exist"},
	{"no-systemd", "Do not offer to install the boot unit"},
	{"non-interactive", "Never prompt; fail on missing values"},
}

func defineDeployFlags(fs *pflag.FlagSet) map[string]string {
	bindings := map[string]string{}
	for _, f := range deployInputFlags {
		fs.String(f.name, "", f.usage)
		bindings[prompt.ConfigKey(f.name)] = f.name
	}
	for _, f := range deploySwitches {
		fs.Bool(f.name, false, f.usage)
		bindings[prompt.ConfigKey(f.name)] = f.name
	}
	return bindings
}

func runDeploy(ctx context.Context, a *app, _ *pflag.FlagSet) error {
	flag := func(name string) bool { return a.v.GetBool(prompt.ConfigKey(name)) }

	var src deployment.ValueSource = prompt.NewExplicit(a.v)
	if !flag("non-interactive") {
		src = deployment.Chain{src, prompt.NewInteractive(os.Stdin, a.stderr)}
	}

	_, err := a.orchestrator.Deploy(ctx, lifecycle.DeployRequest{
		Force:               flag("force"),
		Production:          flag("production"),
		InstallNotebooks:    flag("install-notebooks"),
		AllowMissingDataset: flag("allow-missing-dataset"),
		NoSystemd:           flag("no-systemd"),
		Source:              src,
	})
	return err
}

func stringFlag(fs *pflag.FlagSet, name string) string {
	v, _ := fs.GetString(name)
	return v
}
