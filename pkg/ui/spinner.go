package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"jirarecon/pkg/models"
	"jirarecon/pkg/recon"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 100 * time.Millisecond

// Spinner shows which families are still running and prints one line as
// each settles. When animation is off it only prints the start and finish
// lines. It implements recon.Progress.
type Spinner struct {
	mu      sync.Mutex
	out     io.Writer
	animate bool
	running []models.Family

	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSpinner writes to out, animating only when animate is true
func NewSpinner(out io.Writer, animate bool) *Spinner {
	return &Spinner{
		out:     out,
		animate: animate,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins drawing frames until Stop closes the done channel
func (s *Spinner) Start() {
	if !s.animate {
		close(s.stopped)
		return
	}

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for frame := 0; ; frame++ {
			select {
			case <-s.done:
				s.clear()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[frame%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and waits for the line to be cleared
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	<-s.stopped
}

// FamilyStarted records that family is being fetched
func (s *Spinner) FamilyStarted(family models.Family) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = append(s.running, family)
	if !s.animate {
		fmt.Fprintf(s.out, "%s %s...\n", Cyan("→"), family)
	}
}

// FamilyFinished prints the outcome of a family
func (s *Spinner) FamilyFinished(r *recon.FamilyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.running {
		if f == r.Family {
			s.running = append(s.running[:i], s.running[i+1:]...)
			break
		}
	}

	if s.animate {
		s.clearLocked()
	}

	mark := Green("✓")
	switch {
	case r.Interrupted:
		mark = Yellow("!")
	case r.State == recon.StateRootFailed:
		mark = Red("✗")
	}
	fmt.Fprintf(s.out, "%s %s: %d saved, %d failed\n", mark, r.Family, r.Saved, r.Failed)
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.running) == 0 {
		return
	}
	names := make([]string, len(s.running))
	for i, f := range s.running {
		names[i] = f.String()
	}
	fmt.Fprintf(s.out, "\r\033[K%s Fetching %s", Cyan(frame), strings.Join(names, ", "))
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Spinner) clearLocked() {
	fmt.Fprint(s.out, "\r\033[K")
}
