// Package shell provides the command runner used to drive the external validation tools.
package shell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/markup/internal/core/domain"
	"go.trai.ch/markup/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner implements ports.CommandRunner using os/exec.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the command, capturing stdout and stderr through one writer so
// that diagnostics keep the order in which the tool emitted them.
func (r *Runner) Run(ctx context.Context, c ports.Command) (*ports.Output, error) {
	cmdEnv := resolveEnvironment(os.Environ(), c.Env)

	executable := c.Name
	if !filepath.IsAbs(c.Name) {
		if lp, err := lookPath(c.Name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // tool names come from configuration
	if len(cmd.Args) > 0 {
		cmd.Args[0] = c.Name
	}
	cmd.Env = cmdEnv
	cmd.Dir = c.Dir

	combined := &syncBuffer{}
	cmd.Stdout = combined
	cmd.Stderr = combined

	err := cmd.Run()

	out := &ports.Output{Lines: splitLines(combined.Bytes())}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() < 0 {
			// Terminated by a signal, typically context cancellation.
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", c.Name)
		}
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}

	startErr := zerr.Wrap(err, domain.ErrCommandStartFailed.Error())
	return nil, zerr.With(startErr, "command", c.Name)
}

// syncBuffer serializes writes from the stdout and stderr copy goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}

func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines
}

// allowListedEnvVars are the system environment variables inherited by the tools.
// Everything else must be passed explicitly through Command.Env.
var allowListedEnvVars = map[string]struct{}{
	"HOME":   {},
	"TERM":   {},
	"USER":   {},
	"PATH":   {},
	"TMPDIR": {},
	"LANG":   {},
}

// resolveEnvironment merges the allow-listed system environment with the command environment.
// A PATH in the command environment is prepended to the system PATH.
func resolveEnvironment(sysEnv, cmdEnv []string) []string {
	envMap := filterSystemEnv(sysEnv)

	for _, entry := range cmdEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

func filterSystemEnv(sysEnv []string) map[string]string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	return envMap
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if rest, ok := strings.CutPrefix(e, "PATH="); ok {
			path = rest
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
