package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner_Run(t *testing.T) {
	tests := []struct {
		name         string
		cmd          Command
		wantOutput   string
		wantErr      bool
		wantExitCode int
		wantStderr   string
	}{
		{
			name:       "captures stdout",
			cmd:        Command{Name: "sh", Args: []string{"-c", "printf hello"}},
			wantOutput: "hello",
		},
		{
			name:       "passes extra environment",
			cmd:        Command{Name: "sh", Args: []string{"-c", "printf \"$SHELL_TEST_VALUE\""}, Env: []string{"SHELL_TEST_VALUE=injected"}},
			wantOutput: "injected",
		},
		{
			name:         "reports exit code and stderr",
			cmd:          Command{Name: "sh", Args: []string{"-c", "echo broken >&2; exit 3"}},
			wantErr:      true,
			wantExitCode: 3,
			wantStderr:   "broken",
		},
		{
			name:         "missing binary has no exit code",
			cmd:          Command{Name: "definitely-not-a-real-binary-gitoperator"},
			wantErr:      true,
			wantExitCode: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewExecRunner()
			out, err := runner.Run(context.Background(), tt.cmd)

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOutput, out)
				return
			}

			require.Error(t, err)
			var shellErr *Error
			require.True(t, errors.As(err, &shellErr))
			assert.Equal(t, tt.wantExitCode, shellErr.ExitCode())
			assert.Equal(t, tt.wantExitCode, ExitCode(err))
			assert.Equal(t, tt.wantStderr, shellErr.Output)
		})
	}
}

func TestExecRunner_RunInDir(t *testing.T) {
	dir := t.TempDir()

	out, err := NewExecRunner().Run(context.Background(), Command{Name: "pwd", Dir: dir})
	require.NoError(t, err)
	assert.Contains(t, out, dir)
}

func TestExitCode_ForeignError(t *testing.T) {
	assert.Equal(t, -1, ExitCode(errors.New("plain")))
	assert.Equal(t, -1, ExitCode(nil))
}

func TestError_Message(t *testing.T) {
	err := &Error{
		Command: Command{Name: "git", Args: []string{"push", "origin"}},
		Output:  "rejected",
		Err:     errors.New("exit status 1"),
	}
	assert.Equal(t, "git push origin: exit status 1: rejected", err.Error())

	err.Output = ""
	assert.Equal(t, "git push origin: exit status 1", err.Error())
}
