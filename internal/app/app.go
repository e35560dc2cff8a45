// Package app provides the terminal user interface for termstorm. It
// wires a shell session to a tcell screen and runs the main event loop
// that moves bytes between the two.
package app

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termstorm/internal/cast"
	"github.com/dshills/termstorm/internal/config"
	"github.com/dshills/termstorm/internal/session"
	"github.com/dshills/termstorm/internal/vt"
)

// Application is the central coordinator for the interactive emulator.
// It manages component lifecycles and the main event loop.
type Application struct {
	// Core infrastructure
	cfg    *config.Config
	theme  *config.Theme
	logger *Logger

	// Host terminal
	screen tcell.Screen

	// Shell side
	sessions *session.Manager
	sess     *session.Session

	// Recording
	recorder *cast.Recorder

	// State
	running  atomic.Bool
	done     chan struct{}
	quitOnce sync.Once
	updates  chan struct{}
	bells    atomic.Int32

	// View state, owned by the event loop.
	scroll    int
	lastTitle string

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// Config is the loaded configuration. Nil means defaults.
	Config *config.Config

	// ConfigPath, when set, is watched so edits to the file apply to the
	// running emulator without a restart.
	ConfigPath string

	// Command overrides the configured shell with an arbitrary argv.
	Command []string

	// Record, when set, receives the session as an asciicast stream.
	Record io.Writer

	// Logger receives diagnostics. The TUI owns the host terminal, so
	// this must never write to stdout. Nil discards everything.
	Logger *Logger

	// Screen overrides the tcell screen. Used by tests.
	Screen tcell.Screen
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}

	app := &Application{
		cfg:     opts.Config,
		logger:  opts.Logger,
		screen:  opts.Screen,
		done:    make(chan struct{}),
		updates: make(chan struct{}, 1),
		opts:    opts,
	}

	// Resolve the theme up front so bad colors fail before the screen
	// is taken over.
	theme, err := app.cfg.Theme.Resolve()
	if err != nil {
		return nil, &InitError{Component: "theme", Err: err}
	}
	app.theme = theme
	for _, w := range app.cfg.Warnings() {
		app.logger.Warn(w)
	}

	return app, nil
}

// Run starts the application main loop. It blocks until the shell exits,
// the user quits, or a fatal error occurs.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	// 1. Screen
	if app.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		app.screen = screen
	}
	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()
	app.screen.EnablePaste()
	app.screen.EnableFocus()

	cols, rows := app.screen.Size()

	// 2. Recorder, before the session so no output is missed
	if app.opts.Record != nil {
		rec, err := cast.NewRecorder(app.opts.Record, cast.Header{
			Width:  cols,
			Height: rows,
			Term:   app.cfg.Terminal.Term,
		})
		if err != nil {
			return &InitError{Component: "recorder", Err: err}
		}
		app.recorder = rec
	}

	// 3. Shell session, sized to the screen
	if err := app.startSession(cols, rows); err != nil {
		return err
	}
	defer app.sessions.Shutdown(2 * time.Second)

	app.logger.Info("session started: id=%s pid=%d size=%dx%d",
		app.sess.ID(), app.sess.PID(), cols, rows)

	// 4. Config watcher for live reload
	var reload <-chan struct{}
	if app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath)
		if err != nil {
			app.logger.Warn("config watch unavailable: %v", err)
		} else {
			defer w.Close()
			reload = w.Changes()
		}
	}

	// 5. Main event loop
	return app.eventLoop(app.pollEvents(), reload)
}

// startSession creates the session manager and the single shell session.
func (app *Application) startSession(cols, rows int) error {
	app.sessions = session.NewManager(session.Options{
		Shell:      app.cfg.Terminal.Shell,
		WorkDir:    app.cfg.Terminal.WorkDir,
		Scrollback: app.cfg.Terminal.Scrollback,
	})

	opts := session.Options{
		Cols:    cols,
		Rows:    rows,
		Login:   true,
		OnData:  app.onSessionData,
		OnTitle: func(string) { app.requestRender() },
		OnBell: func() {
			app.bells.Add(1)
			app.requestRender()
		},
	}
	if len(app.opts.Command) > 0 {
		opts.Shell = app.opts.Command[0]
		opts.Args = app.opts.Command[1:]
		opts.Login = false
	}

	sess, err := app.sessions.Create(opts)
	if err != nil {
		return &InitError{Component: "session", Err: err}
	}
	app.sess = sess
	return nil
}

// onSessionData runs on the session reader goroutine. It must not touch
// the screen; it records and pokes the event loop.
func (app *Application) onSessionData(data []byte) {
	if app.recorder != nil {
		if err := app.recorder.Output(data); err != nil {
			app.logger.WithComponent("cast").Error("output event failed: %v", err)
		}
	}
	app.requestRender()
}

// requestRender coalesces redraw requests. A full channel means a render
// is already pending.
func (app *Application) requestRender() {
	select {
	case app.updates <- struct{}{}:
	default:
	}
}

// pollEvents pumps tcell events into a channel so the main loop can
// select across input, session output, and shutdown.
func (app *Application) pollEvents() <-chan tcell.Event {
	events := make(chan tcell.Event, 100)
	go func() {
		defer close(events)
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()
	return events
}

// eventLoop is the main application loop.
func (app *Application) eventLoop(events <-chan tcell.Event, reload <-chan struct{}) error {
	app.render()

	for {
		select {
		case <-app.done:
			return nil

		case <-app.sess.Done():
			app.logger.Info("session exited: code=%d", app.sess.ExitCode())
			return nil

		case ev := <-events:
			if err := app.handleEvent(ev); err != nil {
				if errors.Is(err, ErrQuit) {
					return nil
				}
				return err
			}

		case <-reload:
			app.reloadConfig()

		case <-app.updates:
		}

		app.render()
	}
}

// reloadConfig re-reads the config file and applies what can change at
// runtime: theme, cursor, and bell. Shell and scrollback settings only
// affect future sessions.
func (app *Application) reloadConfig() {
	cfg, err := config.Load(app.opts.ConfigPath)
	if err != nil {
		app.logger.Warn("config reload failed: %v", err)
		return
	}
	theme, err := cfg.Theme.Resolve()
	if err != nil {
		app.logger.Warn("config reload failed: %v", err)
		return
	}

	app.cfg = cfg
	app.theme = theme
	app.logger.Info("config reloaded")
	for _, w := range cfg.Warnings() {
		app.logger.Warn(w)
	}
}

// handleEvent translates one tcell event into pty input or a UI action.
func (app *Application) handleEvent(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		if err := app.sess.Resize(rows, cols); err != nil {
			app.logger.Error("resize failed: %v", err)
		}
		if app.recorder != nil {
			if err := app.recorder.Resize(cols, rows); err != nil {
				app.logger.WithComponent("cast").Error("resize event failed: %v", err)
			}
		}
		app.screen.Sync()

	case *tcell.EventKey:
		return app.handleKey(ev)

	case *tcell.EventPaste:
		bracketed := app.sess.Term().Mode(vt.ModeBracketedPaste)
		app.writeInput(encodePaste(ev.Start(), bracketed))

	case *tcell.EventFocus:
		wanted := app.sess.Term().Mode(vt.ModeFocusReport)
		app.writeInput(encodeFocus(ev.Focused, wanted))
	}
	return nil
}

// handleKey forwards a key press to the shell unless it is the quit
// chord or scrollback navigation.
func (app *Application) handleKey(ev *tcell.EventKey) error {
	if ev.Key() == tcell.KeyCtrlQ {
		return ErrQuit
	}
	if app.handleScrollKey(ev) {
		return nil
	}
	app.writeInput(encodeKey(ev, app.sess.Term().Modes()))
	return nil
}

// writeInput forwards encoded bytes to the shell. Write errors after the
// child exits are expected and only logged.
func (app *Application) writeInput(p []byte) {
	if len(p) == 0 {
		return
	}
	if _, err := app.sess.Write(p); err != nil {
		app.logger.Debug("input dropped: %v", err)
	}
}

// Quit asks the event loop to exit. Safe to call from any goroutine.
func (app *Application) Quit() {
	app.quitOnce.Do(func() { close(app.done) })
}
