// Package timew runs the Timewarrior export command and decodes its output.
package timew

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/Tiliavir/timew-ical/internal/stage"
	"github.com/Tiliavir/timew-ical/internal/timecalc"
)

// DefaultBinary is the executable looked up on PATH when none is configured.
const DefaultBinary = "timew"

// Result is the outcome of one export run: either Success or Failure.
type Result interface {
	isResult()
}

// Success holds stdout of a run that wrote nothing to stderr.
type Success struct {
	Stdout []byte
}

// Failure holds stderr of a run that wrote to it.
type Failure struct {
	Stderr []byte
}

func (Success) isResult() {}
func (Failure) isResult() {}

// NewResult selects the variant: any stderr output means Failure,
// whatever the exit status was.
func NewResult(stdout, stderr []byte) Result {
	if len(stderr) > 0 {
		return Failure{Stderr: stderr}
	}
	return Success{Stdout: stdout}
}

// Runner executes a command and returns its captured output streams.
// The returned error is reserved for failures to start or wait on the
// process; a non-zero exit is not an error.
type Runner interface {
	Run(name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = nil
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// Invoker runs `timew export` for a range.
type Invoker struct {
	Binary string
	Runner Runner
	Logger *slog.Logger
}

// NewInvoker returns an Invoker for binary using os/exec.
func NewInvoker(binary string, logger *slog.Logger) *Invoker {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{Binary: binary, Runner: ExecRunner{}, Logger: logger}
}

// Args returns the command-line arguments for exporting r. Dates lose
// their time of day; timew's "-" separates the two ends of the range.
func Args(r timecalc.Range) []string {
	from, to := r.Dates()
	return []string{"export", from, "-", to}
}

// Export spawns exactly one process and tags its output.
func (inv *Invoker) Export(r timecalc.Range) (Result, error) {
	args := Args(r)
	inv.Logger.Debug("running export", "binary", inv.Binary, "args", args)

	stdout, stderr, err := inv.Runner.Run(inv.Binary, args...)
	if err != nil {
		return nil, stage.New(stage.ErrProcessLaunch, inv.Binary, err)
	}

	res := NewResult(stdout, stderr)
	switch res.(type) {
	case Failure:
		inv.Logger.Debug("export wrote to stderr", "bytes", len(stderr))
	case Success:
		inv.Logger.Debug("export finished", "bytes", len(stdout))
	}
	return res, nil
}

func (s Success) String() string { return fmt.Sprintf("Success(%d bytes)", len(s.Stdout)) }
func (f Failure) String() string { return fmt.Sprintf("Failure(%d bytes)", len(f.Stderr)) }
