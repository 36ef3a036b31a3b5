package ui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"parlor/internal/avatar"
	"parlor/internal/content"
	"parlor/internal/conversation"
	"parlor/internal/models"
	"parlor/internal/roster"
	"parlor/internal/simulate"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusCompose means keystrokes go to the message input.
	FocusCompose FocusRegion = iota
	// FocusThread means navigation keys move the message cursor and
	// single-letter actions (react, status) are live.
	FocusThread
	// FocusRoster means navigation keys move the contact cursor.
	FocusRoster
)

// tickMsg drives the simulation clock through the bubbletea loop. The
// resolution is finer than the simulator's decision period so scheduled
// typing stops fire close to their deadline.
type tickMsg time.Time

const tickResolution = 500 * time.Millisecond

// reactionEmojis is the fixed picker set, chosen by digit key.
var reactionEmojis = []string{"👍", "❤️", "😂", "😮", "😢", "🎉"}

const rosterPaneWidth = 26

// Params wires the stores into the screen.
type Params struct {
	Roster       *roster.Roster
	Conversation *conversation.Conversation
	Simulator    *simulate.Simulator
	Renderer     *content.Renderer
	Allowlist    avatar.Allowlist
	Now          func() time.Time
}

// Model is the top-level bubbletea model: a roster pane, the conversation
// thread, a compose input, and the typing-indicator line. All store
// mutations happen synchronously inside Update; the only asynchronous
// input is the tick message, delivered through the same loop.
type Model struct {
	theme Theme
	keys  KeyMap

	roster   *roster.Roster
	conv     *conversation.Conversation
	sim      *simulate.Simulator
	renderer *content.Renderer
	allow    avatar.Allowlist
	now      func() time.Time

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	focus   FocusRegion
	compose textinput.Model
	thread  viewport.Model

	// Active typing indicators, contact id -> display name. Mirrors the
	// simulator's indicator set one event at a time.
	typing map[string]string

	// Message cursor for reactions. Negative means "follow the latest",
	// which also keeps the viewport pinned to the bottom.
	selected int

	pickerOpen   bool
	rosterCursor int
}

func NewModel(params Params) Model {
	compose := textinput.New()
	compose.Prompt = "> "
	compose.Placeholder = "Message"
	compose.CharLimit = 500
	compose.Focus()

	now := params.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		theme:    DefaultTheme,
		keys:     DefaultKeyMap,
		roster:   params.Roster,
		conv:     params.Conversation,
		sim:      params.Simulator,
		renderer: params.Renderer,
		allow:    params.Allowlist,
		now:      now,
		compose:  compose,
		typing:   make(map[string]string),
		selected: -1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickResolution, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.layout()
		m.ready = true
		m.refreshThread()
		return m, nil

	case tickMsg:
		m.applyEvents(m.sim.Tick(m.roster.All(), m.roster.SelfID(), m.now()))
		return m, tick()

	case tea.KeyMsg:
		return m.handleKeys(message)
	}

	var cmd tea.Cmd
	m.compose, cmd = m.compose.Update(message)
	return m, cmd
}

// applyEvents folds simulator events into the stores and the typing set.
func (m *Model) applyEvents(events []simulate.Event) {
	changed := false
	for _, event := range events {
		switch event := event.(type) {
		case simulate.TypingStarted:
			m.typing[event.Contact.ID] = event.Contact.Name
		case simulate.TypingStopped:
			delete(m.typing, event.Contact.ID)
		case simulate.ContactMessage:
			m.conv.Append(event.Contact.ID, event.Text)
			changed = true
		}
	}
	if changed {
		m.refreshThread()
	}
}

func (m Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pickerOpen {
		return m.handlePickerKeys(message)
	}

	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(message, m.keys.FocusNext):
		m.cycleFocus()
		return m, nil
	}

	switch m.focus {
	case FocusCompose:
		if key.Matches(message, m.keys.Send) {
			m.sendMessage()
			return m, nil
		}
		var cmd tea.Cmd
		m.compose, cmd = m.compose.Update(message)
		return m, cmd

	case FocusThread:
		switch {
		case key.Matches(message, m.keys.Up):
			m.moveSelection(-1)
		case key.Matches(message, m.keys.Down):
			m.moveSelection(1)
		case key.Matches(message, m.keys.PageUp):
			m.thread.LineUp(m.thread.Height / 2)
		case key.Matches(message, m.keys.PageDown):
			m.thread.LineDown(m.thread.Height / 2)
		case key.Matches(message, m.keys.React):
			if _, ok := m.selectedMessage(); ok {
				m.pickerOpen = true
			}
		case key.Matches(message, m.keys.CycleStatus):
			m.roster.SetOwnStatus(nextStatus(m.roster.Self().Status))
		}
		return m, nil

	case FocusRoster:
		switch {
		case key.Matches(message, m.keys.Up):
			m.moveRosterCursor(-1)
		case key.Matches(message, m.keys.Down):
			m.moveRosterCursor(1)
		case key.Matches(message, m.keys.CycleStatus):
			m.roster.SetOwnStatus(nextStatus(m.roster.Self().Status))
		}
		return m, nil
	}

	return m, nil
}

// handlePickerKeys toggles a reaction on the selected message by digit, or
// dismisses the picker.
func (m Model) handlePickerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	pressed := message.String()

	switch pressed {
	case "esc", "r", "q":
		m.pickerOpen = false
		return m, nil
	}

	if len(pressed) == 1 && pressed[0] >= '1' && pressed[0] <= '9' {
		index := int(pressed[0] - '1')
		if index < len(reactionEmojis) {
			if selected, ok := m.selectedMessage(); ok {
				m.conv.ToggleReaction(selected.ID, reactionEmojis[index], m.roster.SelfID())
				m.refreshThread()
			}
			m.pickerOpen = false
		}
	}
	return m, nil
}

func (m *Model) cycleFocus() {
	switch m.focus {
	case FocusCompose:
		m.focus = FocusThread
		m.compose.Blur()
	case FocusThread:
		m.focus = FocusRoster
	case FocusRoster:
		m.focus = FocusCompose
		m.compose.Focus()
	}
}

// sendMessage appends the composed text to the conversation. Empty or
// whitespace-only input leaves both the store and the input untouched.
func (m *Model) sendMessage() {
	if _, ok := m.conv.Send(m.compose.Value()); !ok {
		return
	}
	m.compose.Reset()
	m.selected = -1
	m.refreshThread()
}

// selectedMessage resolves the message cursor; negative means the latest.
func (m *Model) selectedMessage() (models.Message, bool) {
	messages := m.conv.Messages()
	if len(messages) == 0 {
		return models.Message{}, false
	}
	index := m.selected
	if index < 0 || index >= len(messages) {
		index = len(messages) - 1
	}
	return messages[index], true
}

func (m *Model) moveSelection(delta int) {
	count := m.conv.Len()
	if count == 0 {
		return
	}
	index := m.selected
	if index < 0 || index >= count {
		index = count - 1
	}
	index += delta
	if index < 0 {
		index = 0
	}
	if index >= count-1 {
		// Back at the newest message: resume following.
		index = -1
	}
	m.selected = index
	m.refreshThread()
}

func (m *Model) moveRosterCursor(delta int) {
	count := len(m.roster.All())
	if count == 0 {
		return
	}
	m.rosterCursor += delta
	if m.rosterCursor < 0 {
		m.rosterCursor = 0
	}
	if m.rosterCursor >= count {
		m.rosterCursor = count - 1
	}
}

// Typing returns the active indicator set sorted by name. The UI keeps its
// own copy, updated one event at a time, so a stop removes exactly the
// entry it targets.
func (m Model) Typing() []models.TypingIndicator {
	indicators := make([]models.TypingIndicator, 0, len(m.typing))
	for id, name := range m.typing {
		indicators = append(indicators, models.TypingIndicator{ContactID: id, Name: name})
	}
	sortIndicators(indicators)
	return indicators
}

func sortIndicators(indicators []models.TypingIndicator) {
	sort.Slice(indicators, func(i, j int) bool {
		return indicators[i].Name < indicators[j].Name
	})
}

func nextStatus(status models.Status) models.Status {
	switch status {
	case models.StatusOnline:
		return models.StatusBusy
	case models.StatusBusy:
		return models.StatusAway
	case models.StatusAway:
		return models.StatusOffline
	default:
		return models.StatusOnline
	}
}

func (m *Model) layout() {
	threadWidth := m.width - rosterPaneWidth - 3
	if threadWidth < 20 {
		threadWidth = 20
	}
	threadHeight := m.height - chromeHeight
	if threadHeight < 3 {
		threadHeight = 3
	}
	m.thread.Width = threadWidth
	m.thread.Height = threadHeight
}

// refreshThread re-renders the viewport content. While the cursor follows
// the latest message the viewport stays pinned to the bottom.
func (m *Model) refreshThread() {
	if !m.ready {
		return
	}
	m.thread.SetContent(m.renderThread())
	if m.selected < 0 {
		m.thread.GotoBottom()
	}
}
