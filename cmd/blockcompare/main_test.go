package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/blockcompare/audio"
	"github.com/lixenwraith/blockcompare/config"
	"github.com/lixenwraith/blockcompare/core"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestOpenLogOutput(t *testing.T) {
	w, closeFn, err := openLogOutput("", false)
	if err != nil || w != io.Discard {
		t.Fatalf("quiet output = %v, %v", w, err)
	}
	closeFn()

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	w, closeFn, err = openLogOutput(path, false)
	if err != nil {
		t.Fatalf("openLogOutput: %v", err)
	}
	newLogger(w, log.InfoLevel).Info("hello")
	if err := closeFn(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "hello") {
		t.Errorf("log file = %q, %v", data, err)
	}
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	if loggerFromContext(ctx) != log.Default() {
		t.Error("expected default logger")
	}
	if cfg := configFromContext(ctx); cfg.MaxBlocks != config.Default().MaxBlocks {
		t.Errorf("config default = %+v", cfg)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSnapshotCommand(t *testing.T) {
	out, err := execute(t, "snapshot", "--left", "3", "--right", "5", "--color=false")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for _, want := range []string{"Block Compare", "[<]", "[Show Lines]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotConnections(t *testing.T) {
	out, err := execute(t, "snapshot", "--left", "2", "--right", "4", "--color=false",
		"--connect", "left-top:right-top", "--connect", "left-bottom:right-bottom")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(out, "[Draw Lines]") || !strings.Contains(out, "●") {
		t.Errorf("expected draw mode with used endpoints:\n%s", out)
	}
}

func TestSnapshotErrors(t *testing.T) {
	cases := [][]string{
		{"snapshot", "--connect", "left-top"},
		{"snapshot", "--connect", "left-top:middle"},
		{"snapshot", "--connect", "left-top:right-bottom"},
		{"snapshot", "--answer", "~"},
		{"snapshot", "--lines", "sketch"},
	}
	for _, args := range cases {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestSnapshotUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.toml")
	if err := os.WriteFile(path, []byte("max_blocks = 6\ninitial_left = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", path, "snapshot", "--color=false")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(out, "Stack Full!") {
		t.Errorf("full left stack not shown:\n%s", out)
	}
}

func TestParseConnection(t *testing.T) {
	from, to, err := parseConnection("left-bottom : right-bottom")
	if err != nil {
		t.Fatal(err)
	}
	if from != core.LeftBottom || to != core.RightBottom {
		t.Errorf("got %s:%s", from, to)
	}
}

func TestSessionQuits(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(80, 24)

	cfg := config.Default()
	cfg.Tutorial = false
	s, err := newSession(screen, cfg, audio.Silent{}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- s.run(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("session did not quit")
	}
	if l, _ := s.board.Counts(); l != cfg.InitialLeft {
		t.Errorf("add should still be in flight, left = %d", l)
	}
}

func TestSessionCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	s, err := newSession(screen, cfg, audio.Silent{}, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session ignored cancellation")
	}
}
