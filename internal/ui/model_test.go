package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"parlor/internal/avatar"
	"parlor/internal/content"
	"parlor/internal/conversation"
	"parlor/internal/models"
	"parlor/internal/roster"
	"parlor/internal/simulate"
)

var uiNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func testContacts() []models.Contact {
	return []models.Contact{
		{ID: "sam", Name: "Sam", Status: models.StatusOnline},
		{ID: "alice", Name: "Alice", Status: models.StatusOnline},
		{ID: "bob", Name: "Bob", Status: models.StatusOffline, LastActive: "1h ago"},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	contacts := testContacts()
	r, err := roster.New("sam", contacts)
	if err != nil {
		t.Fatalf("roster.New: %v", err)
	}
	conv := conversation.New(conversation.Config{
		SelfID:      "sam",
		MaxMessages: 100,
		Now:         func() time.Time { return uiNow },
	})
	sim := simulate.New(simulate.Config{
		TickPeriod:       8 * time.Second,
		TypeProbability:  0,
		ReplyProbability: 0,
		StopDelayMin:     2 * time.Second,
		StopDelayMax:     5 * time.Second,
		Lines:            []string{"hello"},
	}, 1)

	m := NewModel(Params{
		Roster:       r,
		Conversation: conv,
		Simulator:    sim,
		Renderer:     content.NewRenderer(content.DefaultStyle),
		Allowlist:    avatar.NewAllowlist(nil),
		Now:          func() time.Time { return uiNow },
	})
	return press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func press(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	updated, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return updated
}

func keyRune(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSendMessage(t *testing.T) {
	m := newTestModel(t)

	m.compose.SetValue("hello **world**")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	messages := m.conv.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if !messages[0].Own || messages[0].SenderID != "sam" {
		t.Errorf("message not attributed to self: %+v", messages[0])
	}
	if m.compose.Value() != "" {
		t.Errorf("compose input not cleared: %q", m.compose.Value())
	}
}

func TestSendEmptyIsNoOp(t *testing.T) {
	m := newTestModel(t)

	m.compose.SetValue("   ")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.conv.Len() != 0 {
		t.Errorf("whitespace-only send stored a message")
	}
	if m.compose.Value() != "   " {
		t.Errorf("rejected input should stay in the compose field, got %q", m.compose.Value())
	}
}

func TestFocusCycle(t *testing.T) {
	m := newTestModel(t)

	if m.focus != FocusCompose {
		t.Fatalf("initial focus = %v, want compose", m.focus)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusThread {
		t.Errorf("after tab focus = %v, want thread", m.focus)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusRoster {
		t.Errorf("after tab tab focus = %v, want roster", m.focus)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != FocusCompose {
		t.Errorf("focus did not wrap back to compose, got %v", m.focus)
	}
}

func TestStatusCycle(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	want := []models.Status{
		models.StatusBusy,
		models.StatusAway,
		models.StatusOffline,
		models.StatusOnline,
	}
	for _, status := range want {
		m = press(t, m, keyRune("s"))
		if got := m.roster.Self().Status; got != status {
			t.Fatalf("status = %q, want %q", got, status)
		}
	}
}

func TestTypingEvents(t *testing.T) {
	m := newTestModel(t)
	alice := models.Contact{ID: "alice", Name: "Alice"}
	bob := models.Contact{ID: "bob", Name: "Bob"}

	m.applyEvents([]simulate.Event{
		simulate.TypingStarted{Contact: bob},
		simulate.TypingStarted{Contact: alice},
	})

	indicators := m.Typing()
	if len(indicators) != 2 {
		t.Fatalf("expected 2 indicators, got %d", len(indicators))
	}
	if indicators[0].Name != "Alice" || indicators[1].Name != "Bob" {
		t.Errorf("indicators not name-sorted: %+v", indicators)
	}

	m.applyEvents([]simulate.Event{simulate.TypingStopped{Contact: alice}})
	indicators = m.Typing()
	if len(indicators) != 1 || indicators[0].ContactID != "bob" {
		t.Errorf("stop removed the wrong indicator: %+v", indicators)
	}
}

func TestContactMessageEvent(t *testing.T) {
	m := newTestModel(t)

	m.applyEvents([]simulate.Event{
		simulate.ContactMessage{Contact: models.Contact{ID: "alice", Name: "Alice"}, Text: "incoming"},
	})

	messages := m.conv.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].SenderID != "alice" || messages[0].Own {
		t.Errorf("message not attributed to the contact: %+v", messages[0])
	}
}

func TestReactionPickerToggle(t *testing.T) {
	m := newTestModel(t)
	m.conv.Append("alice", "react to me")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, keyRune("r"))
	if !m.pickerOpen {
		t.Fatal("picker did not open")
	}

	m = press(t, m, keyRune("1"))
	if m.pickerOpen {
		t.Error("picker stayed open after choosing")
	}
	msg := m.conv.Messages()[0]
	if !msg.ReactedBy("👍", "sam") {
		t.Fatalf("reaction not recorded: %+v", msg.Reactions)
	}

	// Picking the same emoji again removes it and drops the empty group.
	m = press(t, m, keyRune("r"))
	m = press(t, m, keyRune("1"))
	msg = m.conv.Messages()[0]
	if len(msg.Reactions) != 0 {
		t.Errorf("expected reaction removed, got %+v", msg.Reactions)
	}
}

func TestReactionPickerDismiss(t *testing.T) {
	m := newTestModel(t)
	m.conv.Append("alice", "hi")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, keyRune("r"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.pickerOpen {
		t.Error("esc did not close the picker")
	}
	if len(m.conv.Messages()[0].Reactions) != 0 {
		t.Error("dismissing the picker toggled a reaction")
	}
}

func TestReactionPickerNeedsMessage(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, keyRune("r"))
	if m.pickerOpen {
		t.Error("picker opened with an empty conversation")
	}
}

func TestMessageSelection(t *testing.T) {
	m := newTestModel(t)
	m.conv.Append("alice", "one")
	m.conv.Append("alice", "two")
	m.conv.Append("alice", "three")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})

	if m.selected != -1 {
		t.Fatalf("cursor should start following, got %d", m.selected)
	}
	m = press(t, m, keyRune("k"))
	if m.selected != 1 {
		t.Errorf("after up selected = %d, want 1", m.selected)
	}
	m = press(t, m, keyRune("k"))
	if m.selected != 0 {
		t.Errorf("after up up selected = %d, want 0", m.selected)
	}
	m = press(t, m, keyRune("k"))
	if m.selected != 0 {
		t.Errorf("cursor moved past the oldest message: %d", m.selected)
	}

	// Walking back down to the newest message resumes following.
	m = press(t, m, keyRune("j"))
	m = press(t, m, keyRune("j"))
	if m.selected != -1 {
		t.Errorf("cursor did not resume following, got %d", m.selected)
	}
}

func TestSimulatedConversation(t *testing.T) {
	contacts := testContacts()
	r, err := roster.New("sam", contacts)
	if err != nil {
		t.Fatalf("roster.New: %v", err)
	}
	now := uiNow
	conv := conversation.New(conversation.Config{
		SelfID:      "sam",
		MaxMessages: 100,
		Now:         func() time.Time { return now },
	})
	sim := simulate.New(simulate.Config{
		TickPeriod:       time.Second,
		TypeProbability:  1,
		ReplyProbability: 1,
		StopDelayMin:     time.Second,
		StopDelayMax:     time.Second,
		Lines:            []string{"hey"},
	}, 7)

	m := NewModel(Params{
		Roster:       r,
		Conversation: conv,
		Simulator:    sim,
		Renderer:     content.NewRenderer(content.DefaultStyle),
		Allowlist:    avatar.NewAllowlist(nil),
		Now:          func() time.Time { return now },
	})
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	for i := 0; i < 120 && conv.Len() == 0; i++ {
		now = now.Add(time.Second)
		m = press(t, m, tickMsg(now))
	}

	messages := conv.Messages()
	if len(messages) == 0 {
		t.Fatal("simulator never delivered a message through the model")
	}
	if messages[0].SenderID != "alice" {
		t.Errorf("sender = %q, want the only online contact", messages[0].SenderID)
	}
	if messages[0].Text != "hey" {
		t.Errorf("text = %q, want the canned line", messages[0].Text)
	}
}

func TestViewSmoke(t *testing.T) {
	m := newTestModel(t)
	m.applyEvents([]simulate.Event{
		simulate.ContactMessage{Contact: models.Contact{ID: "alice", Name: "Alice"}, Text: "good morning"},
	})

	view := ansi.Strip(m.View())
	for _, want := range []string{
		"parlor",
		"ONLINE — 2",
		"OFFLINE — 1",
		"Sam (you)",
		"Alice",
		"good morning",
		"Today",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewBeforeFirstResize(t *testing.T) {
	r, err := roster.New("sam", testContacts()[:1])
	if err != nil {
		t.Fatalf("roster.New: %v", err)
	}
	m := NewModel(Params{
		Roster:       r,
		Conversation: conversation.New(conversation.Config{SelfID: "sam", MaxMessages: 10}),
		Simulator:    simulate.New(simulate.Config{TickPeriod: time.Second, StopDelayMin: time.Second, StopDelayMax: time.Second, Lines: []string{"x"}}, 1),
		Renderer:     content.NewRenderer(content.DefaultStyle),
	})

	if !strings.Contains(m.View(), "starting") {
		t.Error("expected placeholder before the first window size message")
	}
}

func TestTypingLine(t *testing.T) {
	alice := models.TypingIndicator{ContactID: "alice", Name: "Alice"}
	bob := models.TypingIndicator{ContactID: "bob", Name: "Bob"}
	carol := models.TypingIndicator{ContactID: "carol", Name: "Carol"}

	tests := []struct {
		name       string
		indicators []models.TypingIndicator
		want       string
	}{
		{"none", nil, ""},
		{"one", []models.TypingIndicator{alice}, "Alice is typing…"},
		{"two", []models.TypingIndicator{alice, bob}, "Alice and Bob are typing…"},
		{"many", []models.TypingIndicator{alice, bob, carol}, "Several people are typing…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := typingLine(tt.indicators); got != tt.want {
				t.Errorf("typingLine = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextStatus(t *testing.T) {
	order := []models.Status{
		models.StatusOnline,
		models.StatusBusy,
		models.StatusAway,
		models.StatusOffline,
		models.StatusOnline,
	}
	for i := 0; i < len(order)-1; i++ {
		if got := nextStatus(order[i]); got != order[i+1] {
			t.Errorf("nextStatus(%q) = %q, want %q", order[i], got, order[i+1])
		}
	}
}
