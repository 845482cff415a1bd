package wave

import (
	"fmt"
	"os/exec"
	"sync"
)

// Player plays bounded audio ranges through ffplay. Starting a new range
// stops any range still playing; there is at most one ffplay child at a
// time.
type Player struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

// Available reports whether ffplay is on PATH.
func (p *Player) Available() bool {
	_, err := exec.LookPath("ffplay")
	return err == nil
}

// PlayRange plays [start, start+dur) seconds of the file asynchronously.
func (p *Player) PlayRange(path string, start, dur float64) error {
	if dur <= 0 {
		return fmt.Errorf("play range duration must be positive, got %v", dur)
	}

	p.Stop()

	cmd := exec.Command("ffplay",
		"-nodisp", "-autoexit", "-loglevel", "quiet",
		"-ss", fmt.Sprintf("%.3f", start),
		"-t", fmt.Sprintf("%.3f", dur),
		path,
	)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffplay: %w", err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	// Reap the child so a finished ffplay does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Stop kills any in-flight playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
}
