package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ludo-technologies/lshmatch/domain"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// StageProgress renders one progress bar per pipeline stage
type StageProgress struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	bar         *progressbar.ProgressBar
}

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// NewProgressManager creates a stage progress reporter on stderr
func NewProgressManager() domain.ProgressManager {
	return &StageProgress{
		out:         os.Stderr,
		interactive: IsInteractiveEnvironment(),
	}
}

// StartStage opens a bar for the named stage
func (p *StageProgress) StartStage(name string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.finishLocked(true)
	if !p.interactive || total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(fmt.Sprintf("%-18s", name)),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("rec"),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Advance moves the current bar to done units
func (p *StageProgress) Advance(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Set(done)
	}
}

// FinishStage closes the current bar
func (p *StageProgress) FinishStage(success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.finishLocked(success)
}

func (p *StageProgress) finishLocked(success bool) {
	if p.bar == nil {
		return
	}
	if success {
		_ = p.bar.Finish()
	} else {
		_ = p.bar.Exit()
		fmt.Fprintln(p.out)
	}
	p.bar = nil
}

// SetWriter redirects progress output; non-terminal writers disable rendering
func (p *StageProgress) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer == nil {
		writer = io.Discard
	}
	p.out = writer
	file, ok := writer.(*os.File)
	p.interactive = ok && term.IsTerminal(int(file.Fd()))
}

// IsInteractive reports whether bars are rendered
func (p *StageProgress) IsInteractive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.interactive
}

// Close finishes any open stage
func (p *StageProgress) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.finishLocked(true)
}
