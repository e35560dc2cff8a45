package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"

	"github.com/dshills/termstorm/internal/config"
)

// appRun tracks a Run call made on a separate goroutine.
type appRun struct {
	err  error
	done chan struct{}
}

// wait blocks until Run returns and yields its error.
func (r *appRun) wait(t *testing.T) error {
	t.Helper()
	select {
	case <-r.done:
		return r.err
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return")
		return nil
	}
}

// startTestApp runs the application against a simulation screen and a
// child command that stays alive until the session is killed.
func startTestApp(t *testing.T, opts Options) (*Application, tcell.SimulationScreen, *appRun) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping app test in short mode")
	}

	sim := tcell.NewSimulationScreen("UTF-8")
	opts.Screen = sim
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	app, err := New(opts)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	run := &appRun{done: make(chan struct{})}
	go func() {
		run.err = app.Run()
		close(run.done)
	}()

	t.Cleanup(func() {
		app.Quit()
		select {
		case <-run.done:
		case <-time.After(5 * time.Second):
		}
	})

	return app, sim, run
}

// simText flattens the simulation screen contents into lines of text.
func simText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				b.WriteRune(c.Runes[0])
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// waitForScreen polls until substr shows up on the simulation screen. An
// early session failure skips the test, since the host may not have a
// working pty.
func waitForScreen(t *testing.T, sim tcell.SimulationScreen, run *appRun, substr string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case <-run.done:
			var ie *InitError
			if errors.As(run.err, &ie) && ie.Component == "session" {
				t.Skipf("skipping: failed to create session (may not have a pty): %v", run.err)
			}
			t.Fatalf("run exited early: %v", run.err)
		default:
		}
		if strings.Contains(simText(sim), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %q on screen, got:\n%s", substr, simText(sim))
}

func TestApplicationShowsChildOutput(t *testing.T) {
	_, sim, run := startTestApp(t, Options{
		Command: []string{"/bin/sh", "-c", "printf 'hello from child'; exec cat"},
	})

	waitForScreen(t, sim, run, "hello from child")
}

func TestApplicationQuitKey(t *testing.T) {
	_, sim, run := startTestApp(t, Options{
		Command: []string{"/bin/sh", "-c", "printf ready; exec cat"},
	})

	waitForScreen(t, sim, run, "ready")
	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

	if err := run.wait(t); err != nil {
		t.Errorf("expected clean exit on quit key, got %v", err)
	}
}

func TestApplicationExitsWithChild(t *testing.T) {
	app, _, run := startTestApp(t, Options{
		Command: []string{"/bin/sh", "-c", "exit 0"},
	})

	err := run.wait(t)
	var ie *InitError
	if errors.As(err, &ie) && ie.Component == "session" {
		t.Skipf("skipping: failed to create session (may not have a pty): %v", err)
	}
	if err != nil {
		t.Errorf("expected clean exit when child exits, got %v", err)
	}
	if code := app.sess.ExitCode(); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestApplicationForwardsKeys(t *testing.T) {
	_, sim, run := startTestApp(t, Options{
		Command: []string{"/bin/sh", "-c", "printf go:; exec cat"},
	})

	waitForScreen(t, sim, run, "go:")
	for _, r := range "zq9" {
		sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}

	// cat sees the typed bytes once the pty echoes them.
	waitForScreen(t, sim, run, "zq9")
}

func TestApplicationThemePaletteOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Palette = map[string]string{"1": "#ff0000"}

	_, sim, run := startTestApp(t, Options{
		Config:  cfg,
		Command: []string{"/bin/sh", "-c", "printf '\\033[31mRED\\033[0m'; exec cat"},
	})

	waitForScreen(t, sim, run, "RED")

	cells, _, _ := sim.GetContents()
	fg, _, _ := cells[0].Style.Decompose()
	if want := tcell.NewRGBColor(255, 0, 0); fg != want {
		t.Errorf("expected palette override %v, got %v", want, fg)
	}
}

func TestApplicationScrollbackView(t *testing.T) {
	_, sim, run := startTestApp(t, Options{
		Command: []string{"/bin/sh", "-c",
			"i=1; while [ $i -le 100 ]; do echo line$i; i=$((i+1)); done; printf end; exec cat"},
	})

	waitForScreen(t, sim, run, "end")

	sim.InjectKey(tcell.KeyPgUp, 0, tcell.ModShift)
	waitForScreen(t, sim, run, "history")

	sim.InjectKey(tcell.KeyEnd, 0, tcell.ModNone)
	deadline := time.Now().Add(5 * time.Second)
	for strings.Contains(simText(sim), "history") {
		if time.Now().After(deadline) {
			t.Fatal("expected scrollback indicator to clear")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestApplicationRecordsCast(t *testing.T) {
	var buf bytes.Buffer
	_, sim, run := startTestApp(t, Options{
		Command: []string{"/bin/sh", "-c", "printf castdata; exec cat"},
		Record:  &buf,
	})

	waitForScreen(t, sim, run, "castdata")
	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	if err := run.wait(t); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected header and events, got %d lines", len(lines))
	}
	if v := gjson.Get(lines[0], "version").Int(); v != 2 {
		t.Errorf("expected version 2 header, got %s", lines[0])
	}
	if w := gjson.Get(lines[0], "width").Int(); w != 80 {
		t.Errorf("expected width 80, got %d", w)
	}
	if !strings.Contains(buf.String(), "castdata") {
		t.Error("expected recorded output to contain child data")
	}
}

func TestApplicationRunTwice(t *testing.T) {
	app, err := New(Options{})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	app.running.Store(true)
	if err := app.Run(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestNewRejectsBadTheme(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Foreground = "notacolor"

	_, err := New(Options{Config: cfg})
	if err == nil {
		t.Fatal("expected error for invalid theme")
	}
	var ie *InitError
	if !errors.As(err, &ie) || ie.Component != "theme" {
		t.Errorf("expected theme init error, got %v", err)
	}
	if !errors.Is(err, config.ErrInvalidColor) {
		t.Errorf("expected ErrInvalidColor in chain, got %v", err)
	}
}
