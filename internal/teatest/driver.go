// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly and runs every returned Cmd on the test
// goroutine. Messages that arrive from outside the model, such as event bus
// notifications, are queued with Post and delivered after the Cmd that
// caused them.
package teatest

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds Cmd chains so a model that keeps returning Cmds
// cannot hang a test.
const MaxDrainDepth = 100

var namedKeys = map[string]tea.KeyType{
	"left":   tea.KeyLeft,
	"right":  tea.KeyRight,
	"up":     tea.KeyUp,
	"down":   tea.KeyDown,
	"home":   tea.KeyHome,
	"end":    tea.KeyEnd,
	"enter":  tea.KeyEnter,
	"esc":    tea.KeyEsc,
	"ctrl+c": tea.KeyCtrlC,
}

// Driver is a synchronous harness for a tea.Model.
type Driver struct {
	t     testing.TB
	model tea.Model

	mu    sync.Mutex
	inbox []tea.Msg

	quitting bool
}

func New(t testing.TB, model tea.Model) *Driver {
	t.Helper()
	return &Driver{t: t, model: model}
}

// Post queues msg for delivery. It is safe to pass as a program's Send.
func (d *Driver) Post(msg tea.Msg) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inbox = append(d.inbox, msg)
}

// Send dispatches msg through Update, drains the resulting Cmds and then
// delivers anything posted meanwhile.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.quitting {
		return
	}
	d.update(msg, 0)
	d.deliverPosted()
}

// Press sends one key event per name. Names are bubbletea key strings
// ("left", "ctrl+c"); anything else is typed as runes.
func (d *Driver) Press(names ...string) {
	d.t.Helper()
	for _, name := range names {
		if kt, ok := namedKeys[name]; ok {
			d.Send(tea.KeyMsg{Type: kt})
			continue
		}
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)})
	}
}

func (d *Driver) Model() tea.Model { return d.model }

func (d *Driver) View() string { return d.model.View() }

// Quitting reports whether a tea.Quit Cmd has run.
func (d *Driver) Quitting() bool { return d.quitting }

func (d *Driver) update(msg tea.Msg, depth int) {
	updated, cmd := d.model.Update(msg)
	d.model = updated
	d.drain(cmd, depth+1)
}

func (d *Driver) drain(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.t.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, sub := range msg {
			d.drain(sub, depth+1)
		}
	case tea.QuitMsg:
		d.quitting = true
	default:
		d.update(msg, depth)
	}
}

func (d *Driver) deliverPosted() {
	for depth := 0; depth < MaxDrainDepth && !d.quitting; depth++ {
		d.mu.Lock()
		pending := d.inbox
		d.inbox = nil
		d.mu.Unlock()
		if len(pending) == 0 {
			return
		}
		for _, msg := range pending {
			d.update(msg, 0)
		}
	}
}
