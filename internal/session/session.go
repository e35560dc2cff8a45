package session

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/dshills/termstorm/internal/vt"
)

// Session is a live shell process attached to a pseudo-terminal and an
// in-memory terminal emulation. Bytes the child writes arrive on the pty
// master, feed the emulator, and surface to the host through callbacks.
type Session struct {
	id   string
	name string

	cmd  *exec.Cmd
	ptmx *os.File
	term *vt.Terminal

	mu   sync.Mutex
	done chan struct{}

	exitCode atomic.Int32
	closed   atomic.Bool

	startDir  string
	lastTitle string

	onData  func([]byte)
	onTitle func(string)
	onBell  func()
	onExit  func(code int)
}

// Options configures a new session.
type Options struct {
	// Name is a human-readable session name.
	Name string
	// Shell is the shell executable to run. Defaults to $SHELL or /bin/sh.
	Shell string
	// Args are extra arguments passed to the shell.
	Args []string
	// Login prepends the login flag so the shell sources the user's
	// profile. Leave it off when Shell is an arbitrary command.
	Login bool
	// Env is extra environment variables in KEY=VALUE form.
	Env []string
	// WorkDir is the starting working directory.
	WorkDir string
	// Cols is the initial width. Defaults to 80.
	Cols int
	// Rows is the initial height. Defaults to 24.
	Rows int
	// Scrollback is the history line limit. Negative disables history,
	// zero means the default of 10000 lines.
	Scrollback int

	// OnData fires after each chunk of child output has been fed to the
	// emulator. The slice is only valid for the duration of the call.
	OnData func([]byte)
	// OnTitle fires when the child changes the window title.
	OnTitle func(title string)
	// OnBell fires for each BEL the child emits.
	OnBell func()
	// OnExit fires once when the child process has exited.
	OnExit func(code int)
}

// New starts a shell in a fresh pty and begins reading its output.
func New(opts Options) (*Session, error) {
	shell := opts.Shell
	if shell == "" {
		shell = os.Getenv("SHELL")
	}
	if shell == "" {
		shell = "/bin/sh"
	}

	shellPath, err := exec.LookPath(shell)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShellNotFound, shell)
	}

	cols := opts.Cols
	if cols <= 0 {
		cols = 80
	}
	rows := opts.Rows
	if rows <= 0 {
		rows = 24
	}
	scrollback := opts.Scrollback
	if scrollback == 0 {
		scrollback = 10000
	}

	args := opts.Args
	if opts.Login {
		args = append([]string{"-l"}, opts.Args...)
	}
	cmd := exec.Command(shellPath, args...)
	cmd.Env = append(os.Environ(), opts.Env...)
	cmd.Env = append(cmd.Env, "TERM=xterm-256color", "COLORTERM=truecolor")
	if opts.WorkDir != "" {
		cmd.Dir = opts.WorkDir
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start pty: %w", err)
	}

	s := &Session{
		id:   uuid.New().String(),
		name: opts.Name,
		cmd:  cmd,
		ptmx: ptmx,
		term: vt.New(vt.Options{
			Cols:         cols,
			Rows:         rows,
			HistoryLimit: scrollback,
		}),
		done:     make(chan struct{}),
		startDir: opts.WorkDir,
		onData:   opts.OnData,
		onTitle:  opts.OnTitle,
		onBell:   opts.OnBell,
		onExit:   opts.OnExit,
	}
	s.exitCode.Store(-1)

	go s.readLoop()

	return s, nil
}

// readLoop pumps child output into the emulator until the pty closes.
func (s *Session) readLoop() {
	defer close(s.done)

	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.term.Feed(buf[:n])
			reply := s.term.TakeOutput()
			bells := s.term.TakeBell()
			title := s.term.Title()
			titleChanged := title != s.lastTitle
			if titleChanged {
				s.lastTitle = title
			}
			s.mu.Unlock()

			// Responses the emulator generated (cursor reports, device
			// attributes) go back to the child.
			if len(reply) > 0 && !s.closed.Load() {
				s.ptmx.Write(reply)
			}
			if s.onData != nil {
				s.onData(buf[:n])
			}
			if titleChanged && s.onTitle != nil {
				s.onTitle(title)
			}
			if s.onBell != nil {
				for i := 0; i < bells; i++ {
					s.onBell()
				}
			}
		}
		if err != nil {
			// The pty master returns an error once the child exits or
			// the session is closed. Either way the loop is over.
			break
		}
	}

	state, err := s.cmd.Process.Wait()
	if err == nil && state != nil {
		s.exitCode.Store(int32(state.ExitCode()))
	}

	if s.onExit != nil {
		s.onExit(int(s.exitCode.Load()))
	}
}

// ID returns the unique session identifier.
func (s *Session) ID() string {
	return s.id
}

// Name returns the session name.
func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// SetName updates the session name.
func (s *Session) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// Write sends input bytes to the child process.
func (s *Session) Write(data []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrSessionClosed
	}
	return s.ptmx.Write(data)
}

// WriteString sends an input string to the child process.
func (s *Session) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Resize changes the pty and emulator dimensions.
func (s *Session) Resize(rows, cols int) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if rows < 1 || cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}
	if err := pty.Setsize(s.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("failed to resize pty: %w", err)
	}
	s.mu.Lock()
	s.term.Resize(rows, cols)
	s.mu.Unlock()
	return nil
}

// Size returns the current emulator dimensions.
func (s *Session) Size() (rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term.Size()
}

// Term returns the underlying terminal emulator. Callers that read from
// it while the session is live should coordinate through Snapshot instead.
func (s *Session) Term() *vt.Terminal {
	return s.term
}

// Snapshot captures the current screen contents.
func (s *Session) Snapshot() *vt.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term.Snapshot()
}

// Title returns the current window title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term.Title()
}

// WorkingDirectory returns the directory the child most recently reported,
// falling back to the starting directory.
func (s *Session) WorkingDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir := s.term.WorkingDir(); dir != "" {
		return dir
	}
	return s.startDir
}

// PID returns the child process ID, or 0 if unavailable.
func (s *Session) PID() int {
	if s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// Done returns a channel closed when the child has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ExitCode returns the child exit code, or -1 while it is running.
func (s *Session) ExitCode() int {
	return int(s.exitCode.Load())
}

// IsRunning reports whether the child is still running.
func (s *Session) IsRunning() bool {
	select {
	case <-s.done:
		return false
	default:
		return !s.closed.Load()
	}
}

// Close terminates the child process and releases the pty.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.ptmx.Close()

	<-s.done
	return nil
}
