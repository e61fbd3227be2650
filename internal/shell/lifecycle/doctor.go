package lifecycle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/compose-spec/compose-go/v2/dotenv"

	"github.com/mvre-project/mvre-hub/internal/core/compose"
	"github.com/mvre-project/mvre-hub/internal/core/domain"
	"github.com/mvre-project/mvre-hub/internal/core/templates"
	"github.com/mvre-project/mvre-hub/internal/shell/docker"
)

// =============================================================================
// Doctor
// =============================================================================

// Check is one diagnostic result. Err is nil when the check passed.
type Check struct {
	Name   string
	Detail string
	Err    error
}

// OK reports whether the check passed.
func (c Check) OK() bool {
	return c.Err == nil
}

// Report is the outcome of Doctor.
type Report struct {
	Dir        string
	Project    string
	Checks     []Check
	Services   []string
	Containers []docker.ContainerInfo
}

// Healthy reports whether every check passed.
func (r *Report) Healthy() bool {
	for _, c := range r.Checks {
		if !c.OK() {
			return false
		}
	}
	return true
}

// Doctor inspects the deployment without changing anything. Only an
// unresolvable deployment is an error; failed checks are part of the report.
func (o *Orchestrator) Doctor(ctx context.Context, explicitDir string) (*Report, error) {
	dir, err := o.begin(domain.CommandDoctor, explicitDir, false)
	if err != nil {
		return nil, err
	}

	r := &Report{Dir: dir, Project: domain.ProjectName(dir)}
	r.Checks = append(r.Checks, o.checkComposeTool(ctx, dir))
	r.Checks = append(r.Checks, o.checkDescriptor(r, dir))
	r.Checks = append(r.Checks, o.checkDaemon(ctx, r))
	return r, nil
}

func (o *Orchestrator) checkComposeTool(ctx context.Context, dir string) Check {
	c := Check{Name: "compose"}
	out, err := o.compose.Output(ctx, dir, "version")
	if err != nil {
		c.Err = err
		return c
	}
	c.Detail = firstLine(out)
	return c
}

func (o *Orchestrator) checkDescriptor(r *Report, dir string) Check {
	c := Check{Name: "descriptor", Detail: filepath.Join(dir, templates.ComposeFilename)}

	content, err := os.ReadFile(c.Detail)
	if err != nil {
		c.Err = err
		return c
	}
	env, err := dotenv.Read(filepath.Join(dir, templates.EnvFilename))
	if err != nil {
		c.Err = fmt.Errorf("read environment file: %w", err)
		return c
	}

	spec, err := compose.ParseComposeSpec(string(content), compose.ParseOptions{
		ProjectName: r.Project,
		WorkingDir:  dir,
		Environment: env,
	})
	if err != nil {
		c.Err = err
		return c
	}
	if err := compose.RequireServices(spec, templates.ServiceHub, templates.ServiceUserImage, templates.ServiceProxy); err != nil {
		c.Err = err
		return c
	}
	r.Services = spec.ServiceNames()
	return c
}

func (o *Orchestrator) checkDaemon(ctx context.Context, r *Report) Check {
	c := Check{Name: "docker"}
	if o.dialDocker == nil {
		c.Detail = "skipped"
		return c
	}

	cli, err := o.dialDocker(ctx)
	if err != nil {
		c.Err = err
		return c
	}
	defer cli.Close()

	if err := cli.Ping(ctx); err != nil {
		c.Err = err
		return c
	}
	containers, err := cli.ProjectContainers(ctx, r.Project)
	if err != nil {
		c.Err = err
		return c
	}
	r.Containers = containers
	c.Detail = fmt.Sprintf("%d containers in project %s", len(containers), r.Project)
	return c
}

// WriteTo renders the report as aligned text.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "deployment\t%s\n", r.Dir)
	fmt.Fprintf(tw, "project\t%s\n", r.Project)
	for _, c := range r.Checks {
		status, detail := "ok", c.Detail
		if !c.OK() {
			status, detail = "FAIL", c.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, status, detail)
	}
	if len(r.Services) > 0 {
		fmt.Fprintf(tw, "services\t%s\n", strings.Join(r.Services, ", "))
	}
	tw.Flush()

	if len(r.Containers) > 0 {
		b.WriteString("\n")
		tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SERVICE\tNAME\tSTATUS\tIMAGE")
		for _, ct := range r.Containers {
			service := ct.Service
			if service == "" {
				service = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", service, ct.Name, ct.State, ct.Image)
		}
		tw.Flush()
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
