package models

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
)

type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusBusy    Status = "busy"
	StatusAway    Status = "away"
)

// Valid reports whether s is one of the four presence statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusBusy, StatusAway:
		return true
	}
	return false
}

// Contact represents a participant in the roster. The roster is fixed at
// startup; the only field that ever changes is Status, and only for the
// local user.
type Contact struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	AvatarURL  string `yaml:"avatarUrl"`
	Status     Status `yaml:"status"`
	LastActive string `yaml:"lastActive,omitempty"`
}

// Message represents a single conversation entry. Reactions map an emoji
// to the set of contact IDs that reacted with it; an emoji whose set
// empties is removed from the map entirely.
type Message struct {
	ID        string
	SenderID  string
	Text      string
	Timestamp time.Time
	Reactions map[string]map[string]bool
	Own       bool
}

// ToggleReaction flips contactID's membership in the emoji's reactor set.
// The map and set are allocated lazily on add; removing the last reactor
// deletes the emoji key.
func (m *Message) ToggleReaction(emoji, contactID string) {
	if set, ok := m.Reactions[emoji]; ok && set[contactID] {
		delete(set, contactID)
		if len(set) == 0 {
			delete(m.Reactions, emoji)
		}
		return
	}
	if m.Reactions == nil {
		m.Reactions = make(map[string]map[string]bool)
	}
	if m.Reactions[emoji] == nil {
		m.Reactions[emoji] = make(map[string]bool)
	}
	m.Reactions[emoji][contactID] = true
}

// ReactionGroup is the aggregate view of one emoji on one message.
type ReactionGroup struct {
	Emoji    string
	Count    int
	Reactors []string
}

// ReactionGroups returns the message's reactions aggregated per emoji,
// sorted by emoji for stable rendering. Reactor IDs are sorted too.
func (m Message) ReactionGroups() []ReactionGroup {
	if len(m.Reactions) == 0 {
		return nil
	}
	groups := make([]ReactionGroup, 0, len(m.Reactions))
	for emoji, set := range m.Reactions {
		g := ReactionGroup{Emoji: emoji, Count: len(set)}
		for id := range set {
			g.Reactors = append(g.Reactors, id)
		}
		sort.Strings(g.Reactors)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Emoji < groups[j].Emoji
	})
	return groups
}

// ReactedBy reports whether contactID has reacted to the message with emoji.
func (m Message) ReactedBy(emoji, contactID string) bool {
	return m.Reactions[emoji][contactID]
}

// TypingIndicator is the ephemeral "contact is composing" signal. At most
// one exists per contact at any time.
type TypingIndicator struct {
	ContactID string
	Name      string
}
