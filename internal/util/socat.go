package util

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"
)

// SocatManager manages lifecycle of socat-created virtual serial pairs.
type SocatManager struct {
	mu     sync.Mutex
	cmds   []*exec.Cmd
	links  []string
	closed bool
	log    *slog.Logger
}

// NewSocatManager initializes an empty manager.
func NewSocatManager() *SocatManager {
	return &SocatManager{log: slog.Default().With("component", "virt-serial")}
}

// CreatePair starts a socat process that links two PTYs (bidirectional)
// and waits until both links exist or wait elapses.
func (m *SocatManager) CreatePair(left, right string, wait time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("socat manager closed")
	}

	cmd := exec.Command(
		"socat", "-d", "-d",
		fmt.Sprintf("pty,raw,echo=0,link=%s", left),
		fmt.Sprintf("pty,raw,echo=0,link=%s", right),
	)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start socat: %w", err)
	}
	m.log.Info("started socat", "pid", cmd.Process.Pid, "left", left, "right", right)

	m.cmds = append(m.cmds, cmd)
	m.links = append(m.links, left, right)

	deadline := time.Now().Add(wait)
	for !linkExists(left) || !linkExists(right) {
		if time.Now().After(deadline) {
			return fmt.Errorf("socat links %s <-> %s not ready after %s", left, right, wait)
		}
		time.Sleep(50 * time.Millisecond)
	}
	return nil
}

func linkExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Cleanup stops all socat processes and removes created links.
func (m *SocatManager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true

	for _, cmd := range m.cmds {
		if cmd.Process != nil {
			m.log.Info("killing socat", "pid", cmd.Process.Pid)
			_ = cmd.Process.Kill()
			_, _ = cmd.Process.Wait()
		}
	}

	for _, path := range m.links {
		if linkExists(path) {
			_ = os.Remove(path)
			m.log.Info("removed link", "path", path)
		}
	}

	m.log.Info("cleanup complete", "pairs", len(m.links)/2)
}
