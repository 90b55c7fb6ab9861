package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchDebounceMsg fires when a debounce timer elapses.
type searchDebounceMsg struct {
	token uint64
}

// debouncer is a cancellable timer: only the most recently scheduled tick
// is honoured. Ticks cannot be stopped in Bubble Tea, so each schedule
// bumps a token and stale ticks simply fail to match.
type debouncer struct {
	delay   time.Duration
	token   uint64
	pending bool
}

func newDebouncer(delay time.Duration) debouncer {
	return debouncer{delay: delay}
}

// Schedule restarts the quiet period.
func (d *debouncer) Schedule() tea.Cmd {
	d.token++
	d.pending = true
	token := d.token
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return searchDebounceMsg{token: token}
	})
}

// Cancel drops any pending tick.
func (d *debouncer) Cancel() {
	d.token++
	d.pending = false
}

// Fire reports whether msg is the live tick, consuming it.
func (d *debouncer) Fire(msg searchDebounceMsg) bool {
	if !d.pending || msg.token != d.token {
		return false
	}
	d.pending = false
	return true
}

// Pending reports whether a tick is outstanding.
func (d *debouncer) Pending() bool {
	return d.pending
}

// searchBox is the header search input. Edits are debounced; enter commits
// immediately.
type searchBox struct {
	input    textinput.Model
	debounce debouncer
}

func newSearchBox() searchBox {
	ti := textinput.New()
	ti.Placeholder = "Search products..."
	ti.Prompt = "/ "
	ti.CharLimit = 100
	ti.Width = 30
	return searchBox{
		input:    ti,
		debounce: newDebouncer(SearchDebounce),
	}
}

func (s *searchBox) Focused() bool {
	return s.input.Focused()
}

func (s *searchBox) Focus() tea.Cmd {
	return s.input.Focus()
}

func (s *searchBox) Blur() {
	s.input.Blur()
}

func (s *searchBox) Value() string {
	return s.input.Value()
}

// SetValue replaces the text without scheduling a search.
func (s *searchBox) SetValue(v string) {
	s.input.SetValue(v)
	s.debounce.Cancel()
}

// Update feeds a key to the input and schedules a debounced search when the
// text changed.
func (s *searchBox) Update(msg tea.KeyMsg) tea.Cmd {
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return cmd
	}
	return tea.Batch(cmd, s.debounce.Schedule())
}
