// Package main is the entry point for the termstorm terminal emulator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/dshills/termstorm/internal/app"
	"github.com/dshills/termstorm/internal/cast"
	"github.com/dshills/termstorm/internal/config"
	"github.com/dshills/termstorm/internal/vt"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath string
	record     string
	play       string
	speed      float64
	idleLimit  float64
	dump       bool
	cols       int
	rows       int
	logLevel   string
	logFile    string
	command    []string
}

func run() int {
	opts := parseFlags()

	switch {
	case opts.dump:
		return runDump(opts)
	case opts.play != "":
		return runPlay(opts)
	}
	return runApp(opts)
}

// runApp starts the interactive emulator.
func runApp(opts options) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdin and stdout must be a terminal (use -dump to render a pipe)")
		return 1
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := app.NullLogger
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()

		lcfg := app.DefaultLoggerConfig()
		lcfg.Level = app.ParseLogLevel(opts.logLevel)
		lcfg.Output = f
		logger = app.NewLogger(lcfg)
	}

	var record io.Writer
	if opts.record != "" {
		f, err := os.Create(opts.record)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create recording: %v\n", err)
			return 1
		}
		defer f.Close()
		record = f
	}

	application, err := app.New(app.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Command:    opts.command,
		Record:     record,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// In raw mode Ctrl+C reaches the child as a key; SIGTERM still needs
	// a graceful path.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Quit()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runPlay paces a recording onto the host terminal, which performs the
// emulation itself.
func runPlay(opts options) int {
	f, err := os.Open(opts.play)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	player, err := cast.NewPlayer(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	player.Speed = opts.speed
	if opts.idleLimit > 0 {
		player.MaxIdle = time.Duration(opts.idleLimit * float64(time.Second))
	}

	for {
		ev, err := player.Next()
		if errors.Is(err, io.EOF) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if ev.Kind != 'o' {
			continue
		}
		time.Sleep(ev.Delay)
		os.Stdout.WriteString(ev.Data)
	}
}

// runDump interprets a byte stream headlessly and prints the final screen
// as plain text. The stream is stdin, or a recording when -play is given.
func runDump(opts options) int {
	cols, rows := opts.cols, opts.rows

	var player *cast.Player
	if opts.play != "" {
		f, err := os.Open(opts.play)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()

		player, err = cast.NewPlayer(f)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		h := player.Header()
		if cols <= 0 {
			cols = h.Width
		}
		if rows <= 0 {
			rows = h.Height
		}
	}
	if cols <= 0 || rows <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if cols <= 0 {
				cols = w
			}
			if rows <= 0 {
				rows = h
			}
		}
	}

	t := vt.New(vt.Options{Cols: cols, Rows: rows})

	var err error
	if player != nil {
		err = feedCast(t, player)
	} else {
		err = feedStream(t, os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	rows, _ = t.Size()
	for y := 0; y < rows; y++ {
		fmt.Println(lineText(t.Line(y)))
	}
	return 0
}

// feedCast replays a recording's output through the terminal without
// timing, honoring resize events.
func feedCast(t *vt.Terminal, player *cast.Player) error {
	for {
		ev, err := player.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch ev.Kind {
		case 'o':
			t.Feed([]byte(ev.Data))
		case 'r':
			cols, rows, err := cast.ParseSize(ev.Data)
			if err != nil {
				return err
			}
			t.Resize(rows, cols)
		}
	}
}

func feedStream(t *vt.Terminal, r io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			t.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// lineText flattens a row, dropping trailing blanks and the hidden halves
// of wide glyphs.
func lineText(cells []vt.Cell) string {
	var b strings.Builder
	for _, c := range cells {
		if c.Width == 0 {
			continue
		}
		b.WriteRune(c.Rune)
		for _, cr := range c.Combining {
			b.WriteRune(cr)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.record, "record", "", "Record the session to an asciicast v2 file")
	flag.StringVar(&opts.play, "play", "", "Replay an asciicast v2 file")
	flag.Float64Var(&opts.speed, "speed", 1.0, "Playback speed factor")
	flag.Float64Var(&opts.idleLimit, "idle-limit", 0, "Cap playback pauses at this many seconds")
	flag.BoolVar(&opts.dump, "dump", false, "Interpret input headlessly and print the final screen")
	flag.IntVar(&opts.cols, "cols", 0, "Screen width for -dump (default: the terminal's)")
	flag.IntVar(&opts.rows, "rows", 0, "Screen height for -dump (default: the terminal's)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Append diagnostics to this file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Termstorm - a terminal emulator\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termstorm [options] [command [args...]]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termstorm                        Run the configured shell\n")
		fmt.Fprintf(os.Stderr, "  termstorm htop                   Run a command in place of the shell\n")
		fmt.Fprintf(os.Stderr, "  termstorm -record demo.cast      Record the session\n")
		fmt.Fprintf(os.Stderr, "  termstorm -play demo.cast        Replay a recording\n")
		fmt.Fprintf(os.Stderr, "  termstorm -dump < typescript     Render captured output as text\n")
		fmt.Fprintf(os.Stderr, "  termstorm -dump -play demo.cast  Print a recording's final screen\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Termstorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	// Remaining arguments are the command to run in the terminal.
	opts.command = flag.Args()

	return opts
}
