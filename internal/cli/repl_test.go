package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls    []string
	lastArgs []string
	loginErr error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Tasks(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "tasks")
	f.lastArgs = args
	return nil
}
func (f *fakeExec) Agenda(ctx context.Context) error {
	f.calls = append(f.calls, "agenda")
	return nil
}
func (f *fakeExec) SetURL(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "seturl")
	f.lastArgs = args
	return nil
}
func (f *fakeExec) SetLanguage(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "lang")
	f.lastArgs = args
	return nil
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"whoami",
		"tasks available",
		"agenda",
		"logout",
		"exit",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader(input)))

	assert.Equal(t, []string{"login", "whoami", "tasks", "agenda", "logout"}, exec.calls)
	assert.Equal(t, []string{"available"}, exec.lastArgs)
}

func TestRunREPL_UnknownCommandKeepsLooping(t *testing.T) {
	lines := silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("frobnicate\nwhoami\nquit\n")))

	assert.Equal(t, []string{"whoami"}, exec.calls)

	var sawUnknown bool
	for _, l := range *lines {
		if strings.Contains(l, "Unknown command:") {
			sawUnknown = true
		}
	}
	assert.True(t, sawUnknown)
}

func TestRunREPL_HandlerErrorIsPrintedNotFatal(t *testing.T) {
	lines := silencePrintln(t)

	exec := &fakeExec{loginErr: errors.New("invalid credentials")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("login\nwhoami\nexit\n")))

	require.Equal(t, []string{"login", "whoami"}, exec.calls)

	var sawError bool
	for _, l := range *lines {
		if strings.Contains(l, "invalid credentials") {
			sawError = true
		}
	}
	assert.True(t, sawError)
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("")))

	assert.Empty(t, exec.calls)
}

func TestRunREPL_BlankLinesSkipped(t *testing.T) {
	silencePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("\n   \nwhoami\nexit\n")))

	assert.Equal(t, []string{"whoami"}, exec.calls)
}
