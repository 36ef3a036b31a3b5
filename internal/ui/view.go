package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"parlor/internal/conversation"
	"parlor/internal/models"
)

// chromeHeight is the fixed vertical space around the thread viewport:
// header, typing line, compose input, and help line, plus a spacer.
const chromeHeight = 5

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting…"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderRoster(), " ", m.thread.View()),
		m.renderStatusLine(),
		m.compose.View(),
		m.renderHelp(),
	)
}

func (m Model) renderHeader() string {
	self := m.roster.Self()
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.theme.HeaderForeground).
		Render("parlor")
	dot := lipgloss.NewStyle().
		Foreground(m.theme.StatusColor(self.Status)).
		Render("●")
	who := lipgloss.NewStyle().
		Foreground(m.theme.NormalText).
		Render(fmt.Sprintf("%s (%s)", self.Name, self.Status))
	return fmt.Sprintf("%s  %s %s", title, dot, who)
}

// rosterContacts returns the display order of the roster pane: online
// contacts first, then offline, both name-sorted by the store.
func (m Model) rosterContacts() []models.Contact {
	online, offline := m.roster.Partition()
	return append(online, offline...)
}

func (m Model) renderRoster() string {
	online, offline := m.roster.Partition()

	section := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HelpText)
	normal := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	selected := lipgloss.NewStyle().
		Background(m.theme.SelectedBackground).
		Foreground(m.theme.SelectedForeground)

	var lines []string
	index := 0
	renderEntry := func(c models.Contact) {
		dot := lipgloss.NewStyle().Foreground(m.theme.StatusColor(c.Status)).Render("●")
		name := c.Name
		if c.ID == m.roster.SelfID() {
			name += " (you)"
		}
		style := normal
		if m.focus == FocusRoster && index == m.rosterCursor {
			style = selected
		}
		line := fmt.Sprintf("%s %s", dot, style.Render(truncate(name, rosterPaneWidth-8)))
		if m.typing[c.ID] != "" {
			line += faint.Render(" …")
		} else if c.Status == models.StatusOffline && c.LastActive != "" {
			line += faint.Render(" " + c.LastActive)
		}
		lines = append(lines, line)
		index++
	}

	lines = append(lines, section.Render(fmt.Sprintf("ONLINE — %d", len(online))))
	for _, c := range online {
		renderEntry(c)
	}
	lines = append(lines, "")
	lines = append(lines, section.Render(fmt.Sprintf("OFFLINE — %d", len(offline))))
	for _, c := range offline {
		renderEntry(c)
	}

	if m.focus == FocusRoster {
		if detail := m.renderContactDetail(); detail != "" {
			lines = append(lines, "", detail)
		}
	}

	pane := strings.Join(lines, "\n")
	return lipgloss.NewStyle().
		Width(rosterPaneWidth).
		Height(m.thread.Height).
		MaxHeight(m.thread.Height).
		Render(pane)
}

// renderContactDetail shows the cursor contact's card at the bottom of the
// roster pane. The avatar URL is display-only and shown only when its host
// passes the allowlist.
func (m Model) renderContactDetail() string {
	contacts := m.rosterContacts()
	if m.rosterCursor < 0 || m.rosterCursor >= len(contacts) {
		return ""
	}
	c := contacts[m.rosterCursor]

	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(m.theme.NormalText).Render(c.Name),
		faint.Render(string(c.Status)),
	}
	if c.LastActive != "" {
		lines = append(lines, faint.Render("last active "+c.LastActive))
	}
	if c.AvatarURL != "" {
		if m.allow.Allowed(c.AvatarURL) {
			lines = append(lines, faint.Render(truncate(c.AvatarURL, rosterPaneWidth-2)))
		} else {
			lines = append(lines, faint.Render("avatar host not allowed"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderThread() string {
	messages := m.conv.Messages()
	if len(messages) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("No messages yet.")
	}

	selectedID := ""
	if m.selected >= 0 {
		if msg, ok := m.selectedMessage(); ok {
			selectedID = msg.ID
		}
	}

	var b strings.Builder
	for _, group := range conversation.GroupByDate(messages, m.now()) {
		b.WriteString(m.renderDateRule(group.Label))
		b.WriteString("\n")
		for _, msg := range group.Messages {
			b.WriteString(m.renderMessage(msg, msg.ID == selectedID))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderDateRule(label string) string {
	style := lipgloss.NewStyle().Foreground(m.theme.BorderColor)
	fill := m.thread.Width - lipgloss.Width(label) - 6
	if fill < 2 {
		fill = 2
	}
	return style.Render("── ") +
		lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(label) +
		style.Render(" "+strings.Repeat("─", fill))
}

func (m Model) renderMessage(msg models.Message, selected bool) string {
	name := "Unknown"
	nameColor := m.theme.ContactName
	if contact, ok := m.roster.Get(msg.SenderID); ok {
		name = contact.Name
	}
	if msg.Own {
		nameColor = m.theme.OwnName
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(nameColor).Render(name) +
		lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(" · "+msg.Timestamp.Format("15:04"))
	if selected {
		header = lipgloss.NewStyle().
			Background(m.theme.SelectedBackground).
			Render(header + " ◀")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	body := m.renderer.Render(msg.ID, msg.Text, m.thread.Width-2)
	for _, line := range strings.Split(body, "\n") {
		b.WriteString("  " + line + "\n")
	}

	if pills := m.renderReactions(msg); pills != "" {
		b.WriteString("  " + pills + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderReactions(msg models.Message) string {
	groups := msg.ReactionGroups()
	if len(groups) == 0 {
		return ""
	}
	base := lipgloss.NewStyle().Foreground(m.theme.ReactionPill)
	own := lipgloss.NewStyle().Foreground(m.theme.ReactionOwn).Bold(true)

	pills := make([]string, 0, len(groups))
	for _, group := range groups {
		pill := fmt.Sprintf("%s %d", group.Emoji, group.Count)
		if msg.ReactedBy(group.Emoji, m.roster.SelfID()) {
			pills = append(pills, own.Render(pill))
		} else {
			pills = append(pills, base.Render(pill))
		}
	}
	return strings.Join(pills, "  ")
}

// renderStatusLine shows the reaction picker while it is open, otherwise
// the typing indicators.
func (m Model) renderStatusLine() string {
	if m.pickerOpen {
		var choices []string
		for i, emoji := range reactionEmojis {
			choices = append(choices, fmt.Sprintf("%d %s", i+1, emoji))
		}
		return lipgloss.NewStyle().Foreground(m.theme.NormalText).
			Render("react: " + strings.Join(choices, "  ") + "  (esc to cancel)")
	}
	return lipgloss.NewStyle().
		Italic(true).
		Foreground(m.theme.TypingText).
		Render(typingLine(m.Typing()))
}

// typingLine formats the indicator set the way chat UIs phrase it.
func typingLine(indicators []models.TypingIndicator) string {
	switch len(indicators) {
	case 0:
		return ""
	case 1:
		return indicators[0].Name + " is typing…"
	case 2:
		return indicators[0].Name + " and " + indicators[1].Name + " are typing…"
	default:
		return "Several people are typing…"
	}
}

func (m Model) renderHelp() string {
	var entries string
	switch m.focus {
	case FocusCompose:
		entries = "enter send · tab panes · C-c quit"
	case FocusThread:
		entries = "j/k select · r react · s status · tab panes · C-c quit"
	case FocusRoster:
		entries = "j/k move · s status · tab panes · C-c quit"
	}
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(entries)
}

func truncate(s string, limit int) string {
	if limit <= 1 || lipgloss.Width(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit-1 {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
