// ABOUTME: Streaming companion replies for the TUI.
// ABOUTME: A goroutine forwards fragments as messages; the update loop applies them through the store.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/care4u/internal/companion"
)

// waitForEvent blocks until the next streamed event or until the model quits.
func (m *Model) waitForEvent() tea.Cmd {
	events, ctx := m.events, m.ctx
	return func() tea.Msg {
		select {
		case msg := <-events:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// sendMessage starts an exchange and streams the reply in the background.
func (m *Model) sendMessage(text string) {
	req, err := m.store.BeginExchange(text)
	if err != nil {
		m.setError(err)
		return
	}
	m.chatInput.Reset()
	m.follow = true
	m.clearStatus()

	ctx, cancel := context.WithTimeout(m.ctx, m.timeout)
	ch, err := m.responder.Reply(ctx, req)
	if err != nil {
		cancel()
		_ = m.store.ApplyFragment(companion.Fragment{Err: err, Done: true})
		m.setError(err)
		return
	}
	go forward(m.ctx, ctx, cancel, ch, m.events)
}

// forward relays fragments until the reply finishes. A stream that closes
// without a final fragment is finished here, with the context error if any.
func forward(root, ctx context.Context, cancel context.CancelFunc, ch <-chan companion.Fragment, events chan<- tea.Msg) {
	defer cancel()
	emit := func(f companion.Fragment) bool {
		select {
		case events <- fragmentMsg{fragment: f}:
			return true
		case <-root.Done():
			return false
		}
	}
	for f := range ch {
		if !emit(f) {
			return
		}
		if f.Done || f.Err != nil {
			return
		}
	}
	emit(companion.Fragment{Done: true, Err: ctx.Err()})
}

func (m *Model) applyFragment(f companion.Fragment) tea.Cmd {
	if err := m.store.ApplyFragment(f); err != nil {
		m.logger.Debug("fragment dropped", "err", err)
	}
	if f.Err != nil {
		m.setError(f.Err)
	}
	return m.waitForEvent()
}
