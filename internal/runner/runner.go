// Package runner supervises the sibling processes of the system: the
// MQTT ingestion listener, the level API and the frontend dev server.
// The set lives and dies as a unit — the first child to exit, or an
// incoming SIGINT/SIGTERM, brings everything down.
package runner

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Child describes one supervised process
type Child struct {
	Name string
	Cmd  []string
	Dir  string
}

// childExit reports one child finishing, normally or otherwise
type childExit struct {
	name string
	err  error
}

// Supervisor starts a set of children, waits for the first exit or a
// cancelled context, then shuts the remaining children down: SIGTERM
// first, SIGKILL after the grace period.
type Supervisor struct {
	children []Child
	grace    time.Duration

	mu   sync.Mutex
	live map[string]*exec.Cmd
}

// New creates a supervisor over the given children
func New(children []Child, grace time.Duration) *Supervisor {
	if grace <= 0 {
		grace = 5 * time.Second
	}

	return &Supervisor{
		children: children,
		grace:    grace,
		live:     make(map[string]*exec.Cmd),
	}
}

// Run starts every child and blocks until the whole set has shut
// down. It returns nil only when shutdown was requested via ctx and
// every child stopped cleanly; a child exiting on its own is treated
// as a failure of the set.
func (s *Supervisor) Run(ctx context.Context) error {
	if len(s.children) == 0 {
		return fmt.Errorf("no children configured")
	}

	exits := make(chan childExit, len(s.children))
	started := 0

	for _, child := range s.children {
		cmd := exec.Command(child.Cmd[0], child.Cmd[1:]...)
		cmd.Dir = child.Dir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			startErr := fmt.Errorf("failed to start %s: %w", child.Name, err)
			log.Printf("❌ %v", startErr)
			s.terminateLive()
			s.drain(exits, started)
			return startErr
		}

		log.Printf("🚀 Started %s (pid %d)", child.Name, cmd.Process.Pid)

		s.mu.Lock()
		s.live[child.Name] = cmd
		s.mu.Unlock()
		started++

		name := child.Name
		go func() {
			err := cmd.Wait()
			s.mu.Lock()
			delete(s.live, name)
			s.mu.Unlock()
			exits <- childExit{name: name, err: err}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("🛑 Shutdown requested, stopping all processes...")
	case exit := <-exits:
		started--
		if exit.err != nil {
			runErr = fmt.Errorf("%s exited: %w", exit.name, exit.err)
			log.Printf("❌ Process %s exited with error: %v", exit.name, exit.err)
		} else {
			runErr = fmt.Errorf("%s exited unexpectedly", exit.name)
			log.Printf("⚠️  Process %s exited, stopping siblings", exit.name)
		}
	}

	s.terminateLive()
	s.drain(exits, started)

	log.Println("✅ All processes stopped")
	return runErr
}

// terminateLive asks every live child to stop
func (s *Supervisor) terminateLive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, cmd := range s.live {
		log.Printf("Sending SIGTERM to %s (pid %d)", name, cmd.Process.Pid)
		if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
			log.Printf("⚠️  Failed to signal %s: %v", name, err)
		}
	}
}

// drain collects the remaining child exits, force-killing anything
// that outlives the grace period
func (s *Supervisor) drain(exits chan childExit, remaining int) {
	if remaining <= 0 {
		return
	}

	deadline := time.After(s.grace)

	for remaining > 0 {
		select {
		case exit := <-exits:
			remaining--
			if exit.err != nil {
				log.Printf("⚠️  Process %s exited with error during shutdown: %v", exit.name, exit.err)
			} else {
				log.Printf("✅ Process %s stopped", exit.name)
			}
		case <-deadline:
			s.mu.Lock()
			for name, cmd := range s.live {
				log.Printf("⚠️  Process %s did not stop within %s, killing", name, s.grace)
				cmd.Process.Kill()
			}
			s.mu.Unlock()
		}
	}
}
