package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
)

// FrameMsg reports one delivered sweep frame.
type FrameMsg struct {
	Index    int
	Value    float64
	Coverage float64
	Elapsed  time.Duration
}

// DoneMsg ends the progress program.
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

const historyCapacity = 240

// Progress is a Bubble Tea model following a running sweep.
type Progress struct {
	title    string
	param    string
	total    int
	done     int
	value    float64
	coverage []float64
	values   []float64
	start    time.Time
	now      time.Time
	frameDur time.Duration
	spin     int
	err      error
	finished bool
	cancel   func()
}

// NewProgress builds the model. cancel is called when the user quits early.
func NewProgress(title, param string, total int, cancel func()) Progress {
	now := time.Now()
	return Progress{
		title:    title,
		param:    param,
		total:    total,
		start:    now,
		now:      now,
		cancel:   cancel,
		coverage: make([]float64, 0, historyCapacity),
		values:   make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Progress) Init() tea.Cmd {
	return tick()
}

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil && !m.finished {
				m.cancel()
			}
			return m, tea.Quit
		}
	case FrameMsg:
		m.done = msg.Index + 1
		m.value = msg.Value
		m.frameDur = msg.Elapsed
		m.coverage = appendCapped(m.coverage, msg.Coverage*100)
		m.values = appendCapped(m.values, msg.Value)
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		m.now = time.Now()
		return m, tea.Quit
	case tickMsg:
		m.now = time.Time(msg)
		m.spin++
		return m, tick()
	}
	return m, nil
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// Done reports the frames delivered so far.
func (m Progress) Done() int { return m.done }

// Err is the sweep error, if any.
func (m Progress) Err() error { return m.err }

func (m Progress) View() string {
	var s strings.Builder
	s.WriteString(Title.Render(m.title) + "\n\n")

	status := StatusRunning.Render(spinner(m.spin) + " RENDERING")
	switch {
	case m.finished && m.err != nil:
		status = StatusFailed.Render("✗ FAILED: " + m.err.Error())
	case m.finished:
		status = StatusDone.Render("✓ DONE")
	}
	s.WriteString(status + "\n\n")

	frac := 0.0
	if m.total > 0 {
		frac = float64(m.done) / float64(m.total)
	}
	s.WriteString(ProgressBar(frac, 40) + fmt.Sprintf(" %3.0f%%\n\n", frac*100))

	elapsed := m.now.Sub(m.start).Round(time.Second)
	s.WriteString(Metric("Frame", fmt.Sprintf("%d/%d", m.done, m.total)) + "\n")
	s.WriteString(Metric(m.param, fmt.Sprintf("%.3f", m.value)) + "\n")
	s.WriteString(Metric("Elapsed", elapsed.String()) + "\n")
	if m.done > 0 && m.done < m.total {
		eta := time.Duration(float64(m.now.Sub(m.start)) / float64(m.done) * float64(m.total-m.done))
		s.WriteString(Metric("ETA", eta.Round(time.Second).String()) + "\n")
	}
	if m.frameDur > 0 {
		s.WriteString(Metric("Last frame", m.frameDur.Round(time.Millisecond).String()) + "\n")
	}

	if len(m.coverage) > 1 {
		chart := asciigraph.Plot(m.coverage, asciigraph.Height(5), asciigraph.Width(40), asciigraph.Caption("coverage %"))
		s.WriteString("\n" + chart + "\n")
	}
	if len(m.values) > 0 {
		s.WriteString("\n" + Subtle.Render(m.param+" ") + Sparkline(m.values, 40) + "\n")
	}

	s.WriteString("\n" + KeyHint.Render("q: stop"))
	return Panel.Render(s.String())
}

func spinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressLine is the plain progress report printed once per second of video.
func ProgressLine(index, total, fps int, param string, value float64) string {
	secs := 0.0
	if fps > 0 {
		secs = float64(index) / float64(fps)
	}
	return fmt.Sprintf("Frame %d/%d (%.1fs) - %s=%.3f", index+1, total, secs, param, value)
}
