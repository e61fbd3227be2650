// Package prompt provides the value sources used to collect deployment
// inputs: configuration (flags, environment, config file) and the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mvre-project/mvre-hub/internal/core/deployment"
)

// KeyPrefix is the configuration section deploy answers live in.
const KeyPrefix = "deploy."

// ConfigKey maps a question key to its configuration key,
// e.g. "client-secret" to "deploy.client_secret".
func ConfigKey(questionKey string) string {
	return KeyPrefix + strings.ReplaceAll(questionKey, "-", "_")
}

// =============================================================================
// Explicit Source
// =============================================================================

// Explicit answers from configuration. Flags bound to deploy.* keys, the
// MVRE_HUB_DEPLOY_* environment and the config file all end up here.
type Explicit struct {
	v *viper.Viper
}

// NewExplicit creates a source backed by v.
func NewExplicit(v *viper.Viper) *Explicit {
	return &Explicit{v: v}
}

// Lookup implements deployment.ValueSource. Empty values count as unset.
func (e *Explicit) Lookup(q deployment.Question) (string, bool, error) {
	v := strings.TrimSpace(e.v.GetString(ConfigKey(q.Key)))
	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// =============================================================================
// Interactive Source
// =============================================================================

// Interactive asks on a terminal. It always answers; an empty line means
// "use the default".
type Interactive struct {
	reader *bufio.Reader
	out    io.Writer

	// ReadSecret reads one line without echo. When nil, secrets are read
	// like any other line.
	ReadSecret func() (string, error)
}

// NewInteractive creates a source reading from in and prompting on out.
// Secrets are read without echo when in is a terminal.
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	p := &Interactive{reader: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && IsTerminal(f) {
		fd := int(f.Fd())
		p.ReadSecret = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(out)
			return string(b), err
		}
	}
	return p
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Lookup implements deployment.ValueSource.
func (p *Interactive) Lookup(q deployment.Question) (string, bool, error) {
	fmt.Fprint(p.out, label(q))

	if q.Secret && p.ReadSecret != nil {
		v, err := p.ReadSecret()
		if err != nil {
			return "", false, fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(v), true, nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", false, err
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		if line == "" {
			return "", false, nil
		}
	}
	return strings.TrimSpace(line), true, nil
}

func label(q deployment.Question) string {
	switch {
	case q.Confirm && isYes(q.Default):
		return q.Prompt + " [Y/n]: "
	case q.Confirm:
		return q.Prompt + " [y/N]: "
	case q.Default != "" && !q.Secret:
		return fmt.Sprintf("%s [%s]: ", q.Prompt, q.Default)
	default:
		return q.Prompt + ": "
	}
}

func isYes(v string) bool {
	switch strings.ToLower(v) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}
