package deployment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvre-project/mvre-hub/internal/core/domain"
)

// =============================================================================
// Value Sources
// =============================================================================

// Question describes one value the operator must supply.
type Question struct {
	// Key is the flag name the value can be supplied with (e.g. "acme-email").
	Key string

	// Prompt is shown by interactive sources.
	Prompt string

	// Default is used when the operator enters nothing.
	Default string

	// Optional questions may be answered with an empty string.
	Optional bool

	// Secret answers are read without echo.
	Secret bool

	// Confirm questions expect a yes/no answer.
	Confirm bool
}

// ValueSource supplies answers to questions.
//
// Lookup returns found=false when the source has no answer, so the next
// source in a chain can be asked. An interactive source always answers.
type ValueSource interface {
	Lookup(q Question) (value string, found bool, err error)
}

// Chain asks each source in order and returns the first answer.
type Chain []ValueSource

// Lookup implements ValueSource.
func (c Chain) Lookup(q Question) (string, bool, error) {
	for _, src := range c {
		v, found, err := src.Lookup(q)
		if err != nil {
			return "", false, err
		}
		if found {
			return v, true, nil
		}
	}
	return "", false, nil
}

// Ask returns the answer to q, falling back to its default. Required
// questions without an answer fail with domain.ErrInvalidInput.
func Ask(src ValueSource, q Question) (string, error) {
	v, found, err := src.Lookup(q)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", q.Key, err)
	}
	if !found || strings.TrimSpace(v) == "" {
		v = q.Default
	}
	v = strings.TrimSpace(v)
	if v == "" && !q.Optional {
		return "", fmt.Errorf("%w: %s must not be empty (use --%s)", domain.ErrInvalidInput, q.Prompt, q.Key)
	}
	return v, nil
}

// AskBool answers a confirm question. Unparsable answers are an error.
func AskBool(src ValueSource, q Question) (bool, error) {
	q.Confirm = true
	q.Optional = true
	v, err := Ask(src, q)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes", "true", "1":
		return true, nil
	case "n", "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %s expects yes or no, got %q", domain.ErrInvalidInput, q.Prompt, v)
	}
}

// =============================================================================
// Questions
// =============================================================================

// DeployDirQuestion asks where the deployment goes.
func DeployDirQuestion(defaultDir string) Question {
	return Question{Key: "dir", Prompt: "Enter deployment directory", Default: defaultDir}
}

// AutostartQuestion asks whether to install the boot unit.
func AutostartQuestion() Question {
	return Question{Key: "autostart", Prompt: "Enable auto-start on boot?", Default: "yes", Confirm: true}
}

// =============================================================================
// Collect
// =============================================================================

// CollectOptions carries the switches that are never prompted for.
type CollectOptions struct {
	Production          bool
	InstallNotebooks    bool
	AllowMissingDataset bool

	// DefaultDomain is offered when prompting for the domain.
	DefaultDomain string
}

// Collect gathers and validates the deployment inputs.
// Questions are asked in a fixed order; the database password is only asked
// for the production profile.
func Collect(src ValueSource, opts CollectOptions) (domain.DeploymentInputs, error) {
	in := domain.NewDeploymentInputs(opts.Production)
	in.InstallNotebooks = opts.InstallNotebooks
	in.AllowMissingDataset = opts.AllowMissingDataset

	fields := []struct {
		q    Question
		dest *string
	}{
		{Question{Key: "domain", Prompt: "Domain name (e.g., hub.example.org)", Default: opts.DefaultDomain}, &in.Domain},
		{Question{Key: "acme-email", Prompt: "ACME email (for TLS)"}, &in.ACMEEmail},
		{Question{Key: "client-id", Prompt: "Helmholtz AAI Client ID"}, &in.ClientID},
		{Question{Key: "client-secret", Prompt: "Helmholtz AAI Client Secret", Secret: true}, &in.ClientSecret},
		{Question{Key: "dataset-path", Prompt: "MoSAiC dataset host path"}, &in.DatasetPath},
		{Question{Key: "shared-path", Prompt: "Shared notebooks host path (optional)", Optional: true}, &in.SharedPath},
		{Question{Key: "admin-users", Prompt: "Admin users (comma-separated, optional)", Optional: true}, &in.AdminUsers},
		{Question{Key: "oauth-authorize-url", Prompt: "OAuth authorize URL"}, &in.OAuthAuthorizeURL},
		{Question{Key: "oauth-token-url", Prompt: "OAuth token URL"}, &in.OAuthTokenURL},
		{Question{Key: "oauth-userdata-url", Prompt: "OAuth userinfo URL"}, &in.OAuthUserdataURL},
	}
	if opts.Production {
		fields = append(fields, struct {
			q    Question
			dest *string
		}{Question{Key: "db-password", Prompt: "Postgres password", Secret: true}, &in.DBPassword})
	}

	for _, f := range fields {
		v, err := Ask(src, f.q)
		if err != nil {
			return domain.DeploymentInputs{}, err
		}
		*f.dest = v
	}

	if in.InstallNotebooks && !in.HasSharedPath() {
		in.SharedPath = domain.DefaultSharedPath
	}

	if errs := in.Validate(); len(errs) > 0 {
		return domain.DeploymentInputs{}, errors.Join(errs...)
	}
	return in, nil
}
