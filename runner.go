package webserver

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ghetzel/go-stockutil/executil"
	"github.com/ghetzel/go-stockutil/log"
	"github.com/ghetzel/go-stockutil/stringutil"
)

// CommandResult holds the combined standard output and standard error of a command along
// with its exit status.
type CommandResult struct {
	Command  string
	Status   int
	Output   []byte
	Duration time.Duration
}

func (self *CommandResult) Successful() bool {
	return self.Status == 0
}

// RunCommand executes cmdline through the user's shell in the given working directory and
// waits for it to exit.  A non-zero exit status is reported in the result, not as an error;
// an error is only returned if the command could not be run at all.  A zero timeout means the
// command may run indefinitely.
func RunCommand(cmdline string, dir string, timeout time.Duration, env map[string]string) (*CommandResult, error) {
	var result = &CommandResult{
		Command: cmdline,
	}

	var cmd = executil.ShellCommand(cmdline)
	var started = time.Now()

	cmd.Dir = dir
	cmd.Timeout = timeout
	cmd.InheritEnv = true

	cmd.OnStart = func(s executil.Status) {
		log.Debugf("runner: started %q (timeout: %v)", cmdline, timeout)
	}

	cmd.OnComplete = func(s executil.Status) {
		log.Debugf("runner: %v", s)
	}

	for k, v := range env {
		cmd.SetEnv(k, v)
	}

	output, err := cmd.CombinedOutput()
	result.Output = output
	result.Duration = time.Since(started)

	if err != nil {
		var exitErr *exec.ExitError

		if errors.As(err, &exitErr) {
			result.Status = exitErr.ExitCode()
		} else if cmd.ProcessState != nil && cmd.ProcessState.Exited() {
			result.Status = cmd.ProcessState.ExitCode()
		} else {
			return result, fmt.Errorf("run %q: %v", cmdline, err)
		}
	}

	if result.Status != 0 {
		log.Infof("runner: %q exited with status %d", cmdline, result.Status)
	}

	return result, nil
}

// Return the request parameters as environment variables prefixed with REQ_PARAM_.
func paramsEnv(params *Params) map[string]string {
	var env = make(map[string]string)

	if params != nil {
		for _, k := range params.Keys() {
			var name = strings.ToUpper(stringutil.Underscore(k))
			env[`REQ_PARAM_`+name] = params.Get(k)
		}
	}

	return env
}

// Quote a string for safe inclusion as a single argument in a POSIX shell command line.
func shellQuote(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `'\''`) + `'`
}
