package simulate

import (
	"math/rand"
	"sort"
	"time"

	"parlor/internal/models"
)

// Config holds the simulation tuning values. The defaults (see
// internal/config) are carried over from the behavior being simulated;
// they are arbitrary and intentionally not hard-coded.
type Config struct {
	// TickPeriod is how often the simulator makes a "someone starts
	// typing" decision. Due stops are processed on every Tick call
	// regardless.
	TickPeriod time.Duration

	// TypeProbability is the chance a decision picks a contact at all.
	TypeProbability float64

	// ReplyProbability is the chance a finished typing run produces a
	// message.
	ReplyProbability float64

	// StopDelayMin and StopDelayMax bound the uniform random typing
	// duration.
	StopDelayMin time.Duration
	StopDelayMax time.Duration

	// Lines is the pool of canned message texts.
	Lines []string
}

// Event is a cosmetic state change produced by a tick. The simulator never
// fails; it only produces or withholds events.
type Event interface {
	simEvent()
}

type TypingStarted struct {
	Contact models.Contact
}

type TypingStopped struct {
	Contact models.Contact
}

type ContactMessage struct {
	Contact models.Contact
	Text    string
}

func (TypingStarted) simEvent()  {}
func (TypingStopped) simEvent()  {}
func (ContactMessage) simEvent() {}

type typingRun struct {
	contact models.Contact
	stopAt  time.Time
}

// Simulator drives the fake "other side" of the conversation. All
// randomness comes from a single seeded source and all time comes in
// through Tick, so a given seed and tick schedule replays identically.
type Simulator struct {
	cfg    Config
	rng    *rand.Rand
	typing map[string]typingRun
	nextAt time.Time
}

func New(cfg Config, seed int64) *Simulator {
	return &Simulator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		typing: make(map[string]typingRun),
	}
}

// Tick advances the simulation to now and returns the events that fired.
// Due typing stops are processed first so a contact whose run just ended
// can be picked again by the decision in the same call. The decision fires
// at most once per TickPeriod: with TypeProbability a contact is drawn
// uniformly from the roster, and only an online contact other than the
// local user that is not already typing starts a new run.
func (s *Simulator) Tick(contacts []models.Contact, selfID string, now time.Time) []Event {
	var events []Event

	// Sorted for deterministic event order; map iteration would reorder
	// replays of the same seed.
	var due []string
	for id, run := range s.typing {
		if !run.stopAt.After(now) {
			due = append(due, id)
		}
	}
	sort.Strings(due)

	for _, id := range due {
		run := s.typing[id]
		delete(s.typing, id)
		events = append(events, TypingStopped{Contact: run.contact})

		if len(s.cfg.Lines) > 0 && s.rng.Float64() < s.cfg.ReplyProbability {
			events = append(events, ContactMessage{
				Contact: run.contact,
				Text:    s.cfg.Lines[s.rng.Intn(len(s.cfg.Lines))],
			})
		}
	}

	if s.nextAt.IsZero() {
		s.nextAt = now
	}
	if now.Before(s.nextAt) {
		return events
	}
	s.nextAt = now.Add(s.cfg.TickPeriod)

	if s.rng.Float64() >= s.cfg.TypeProbability {
		return events
	}
	if len(contacts) == 0 {
		return events
	}
	pick := contacts[s.rng.Intn(len(contacts))]
	if pick.ID == selfID || pick.Status != models.StatusOnline {
		return events
	}
	if _, already := s.typing[pick.ID]; already {
		// Idempotent: one outstanding indicator per contact.
		return events
	}

	spread := int64(s.cfg.StopDelayMax - s.cfg.StopDelayMin)
	delay := s.cfg.StopDelayMin
	if spread > 0 {
		delay += time.Duration(s.rng.Int63n(spread + 1))
	}
	s.typing[pick.ID] = typingRun{contact: pick, stopAt: now.Add(delay)}
	events = append(events, TypingStarted{Contact: pick})

	return events
}

// Typing returns the current indicator set sorted by contact name.
func (s *Simulator) Typing() []models.TypingIndicator {
	indicators := make([]models.TypingIndicator, 0, len(s.typing))
	for id, run := range s.typing {
		indicators = append(indicators, models.TypingIndicator{
			ContactID: id,
			Name:      run.contact.Name,
		})
	}
	sort.Slice(indicators, func(i, j int) bool {
		return indicators[i].Name < indicators[j].Name
	})
	return indicators
}

// IsTyping reports whether the contact currently has an indicator.
func (s *Simulator) IsTyping(contactID string) bool {
	_, ok := s.typing[contactID]
	return ok
}
