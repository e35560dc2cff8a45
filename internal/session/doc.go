// Package session runs shell processes inside pseudo-terminals and keeps an
// in-memory emulation of each one's screen.
//
// # Architecture
//
// Each Session owns three things: the child process, the pty master it is
// attached to, and a vt.Terminal that interprets everything the child
// writes. A background goroutine pumps pty output into the emulator and
// delivers the side effects (raw data, title changes, bells, responses the
// emulator addresses back to the child) through the callbacks given at
// creation time.
//
// The Manager tracks live sessions by ID. Sessions deregister themselves
// when their child exits, so the manager's view stays current without
// polling.
//
// # Usage
//
//	mgr := session.NewManager(session.Options{Cols: 80, Rows: 24})
//	defer mgr.Shutdown(5 * time.Second)
//
//	s, err := mgr.Create(session.Options{
//		Name: "main",
//		OnData: func(data []byte) {
//			// redraw from s.Snapshot()
//		},
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	s.WriteString("ls -la\n")
package session
