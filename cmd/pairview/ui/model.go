// Package ui is the terminal surface: a login screen that takes the
// 4-digit pairing code and a chat screen showing relayed responses with
// a connection indicator.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/PabloGalante/pairview/internal/app/pairing"
	"github.com/PabloGalante/pairview/internal/app/relay"
	"github.com/PabloGalante/pairview/internal/domain"
	"github.com/PabloGalante/pairview/internal/observability"
)

type view int

const (
	viewLogin view = iota
	viewChat
)

type verifiedMsg struct {
	session *pairing.VerifiedSession
}

type verifyFailedMsg struct {
	err error
}

type relayStartedMsg struct{}

type relayStartFailedMsg struct {
	err error
}

type relayEventMsg relay.Event

type Model struct {
	ctx      context.Context
	verifier *pairing.Service
	store    domain.SessionStore

	view     view
	input    textinput.Model
	viewport viewport.Model

	status    string
	statusErr bool
	verifying bool

	relay     *relay.Relay
	code      domain.PairingCode
	connected bool

	width  int
	height int
}

// NewModel builds the initial login-screen model. A non-empty
// initialCode is verified immediately, skipping the prompt.
func NewModel(ctx context.Context, verifier *pairing.Service, store domain.SessionStore, initialCode string) Model {
	input := textinput.New()
	input.Placeholder = "0000"
	input.CharLimit = 4
	input.Width = 6
	input.Validate = digitsOnly
	input.Focus()

	vp := viewport.New(60, 20)

	m := Model{
		ctx:      ctx,
		verifier: verifier,
		store:    store,
		view:     viewLogin,
		input:    input,
		viewport: vp,
	}

	if initialCode != "" {
		m.input.SetValue(initialCode)
		m.verifying = true
		m.status = "Verifying..."
	}

	return m
}

func digitsOnly(s string) error {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.verifying {
		cmds = append(cmds, m.verifyCmd(m.input.Value()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 3
		if m.view == viewChat {
			m.refreshFeed()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			if m.relay != nil {
				m.relay.Stop()
			}
			return m, tea.Quit

		case tea.KeyEnter:
			if m.view == viewLogin && !m.verifying {
				return m.submit()
			}
		}

	case verifiedMsg:
		m.verifying = false
		m.code = msg.session.Code
		m.view = viewChat
		m.status = ""

		m.relay = relay.New(m.store)
		m.refreshFeed()
		return m, m.startRelayCmd(m.relay, m.code)

	case relayStartedMsg:
		return m, waitForEvent(m.relay)

	case verifyFailedMsg:
		m.verifying = false
		m.status = statusText(msg.err)
		m.statusErr = true
		return m, nil

	case relayStartFailedMsg:
		m.view = viewLogin
		m.status = "Could not open the live subscription."
		m.statusErr = true
		m.relay = nil
		return m, nil

	case relayEventMsg:
		switch msg.Kind {
		case relay.EventStatus:
			m.connected = msg.Status == domain.StatusConnected
		case relay.EventMessage:
			m.refreshFeed()
			m.viewport.GotoBottom()
		}
		return m, waitForEvent(m.relay)
	}

	var cmd tea.Cmd
	switch m.view {
	case viewLogin:
		m.input, cmd = m.input.Update(msg)
	case viewChat:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	code := m.input.Value()
	m.verifying = true
	m.status = "Verifying..."
	m.statusErr = false
	return m, m.verifyCmd(code)
}

func (m Model) verifyCmd(code string) tea.Cmd {
	verifier := m.verifier
	ctx := observability.WithPairingCode(m.ctx, code)
	return func() tea.Msg {
		session, err := verifier.Verify(ctx, code)
		if err != nil {
			return verifyFailedMsg{err: err}
		}
		return verifiedMsg{session: session}
	}
}

// startRelayCmd opens the live subscription off the update loop; the
// dial can block on the network.
func (m Model) startRelayCmd(r *relay.Relay, code domain.PairingCode) tea.Cmd {
	ctx := observability.WithPairingCode(m.ctx, string(code))
	return func() tea.Msg {
		if err := r.Start(ctx, code); err != nil {
			return relayStartFailedMsg{err: err}
		}
		return relayStartedMsg{}
	}
}

// waitForEvent blocks on the relay's notification channel and feeds the
// next change back into the update loop.
func waitForEvent(r *relay.Relay) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-r.Events()
		if !ok {
			return nil
		}
		return relayEventMsg(ev)
	}
}

func statusText(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedCode):
		return "Please enter a valid 4-digit code."
	case errors.Is(err, domain.ErrSessionNotFound):
		return "Invalid code or session not started."
	case errors.Is(err, domain.ErrMissingCredentials):
		return "Missing store configuration."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Store configuration is invalid."
	default:
		return "Something went wrong. Try again."
	}
}

func (m *Model) refreshFeed() {
	m.viewport.SetContent(renderFeed(m.relay.Feed()))
}

func renderFeed(feed *domain.Feed) string {
	if feed.IsEmpty() {
		return placeholderStyle.Render("Waiting for updates...")
	}

	var b strings.Builder
	for _, msg := range feed.Messages() {
		b.WriteString(timestampStyle.Render("["+msg.Timestamp+"]") + " " + msg.Text + "\n")
	}
	return b.String()
}

func (m Model) View() string {
	switch m.view {
	case viewChat:
		return m.chatView()
	default:
		return m.loginView()
	}
}

func (m Model) loginView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pairview") + "\n\n")
	b.WriteString("Enter the 4-digit pairing code shown by your assistant:\n\n")
	b.WriteString("  " + m.input.View() + "\n\n")

	if m.status != "" {
		style := statusInfoStyle
		if m.statusErr {
			style = statusErrorStyle
		}
		b.WriteString(style.Render(m.status) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("enter submit · esc quit"))
	return b.String()
}

func (m Model) chatView() string {
	dot := disconnectedDot
	if m.connected {
		dot = connectedDot
	}

	header := titleStyle.Render("pairview") + "  " +
		helpStyle.Render("session "+string(m.code)) + "  " + dot

	return header + "\n" + m.viewport.View() + "\n" + helpStyle.Render("esc quit")
}
