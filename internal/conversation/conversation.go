package conversation

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"parlor/internal/content"
	"parlor/internal/models"
)

type Seq int64

// Conversation is the ordered message store. Messages live in a fixed-size
// ring buffer; FirstSeq and LastSeq track the sequence range currently held
// so ranged reads stay valid as old messages fall off the front.
type Conversation struct {
	selfID      string
	messages    []models.Message
	firstSeq    Seq
	lastSeq     Seq
	lastIndex   int
	maxMessages int
	now         func() time.Time

	mux sync.RWMutex
}

type Config struct {
	SelfID      string
	MaxMessages int
	Now         func() time.Time
}

const defaultMaxMessages = 500

func New(config Config) *Conversation {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.MaxMessages <= 0 {
		config.MaxMessages = defaultMaxMessages
	}
	return &Conversation{
		selfID:      config.SelfID,
		maxMessages: config.MaxMessages,
		lastIndex:   -1,
		firstSeq:    -1,
		lastSeq:     -1,
		now:         config.Now,
	}
}

// Send appends a message composed by the local user. Text is stripped of
// markup and trimmed; if nothing remains the store is left untouched and
// ok is false. The new message gets a fresh id, the current timestamp, and
// no reactions.
func (c *Conversation) Send(text string) (models.Message, bool) {
	text = strings.TrimSpace(content.Sanitize(text))
	if text == "" {
		return models.Message{}, false
	}
	return c.append(c.selfID, text, c.now()), true
}

// Append adds a message on behalf of a contact (the simulated side of the
// conversation) with the current timestamp.
func (c *Conversation) Append(senderID, text string) models.Message {
	return c.append(senderID, text, c.now())
}

// AppendAt adds a message with an explicit timestamp. Used to seed the
// opening transcript across past calendar days.
func (c *Conversation) AppendAt(senderID, text string, ts time.Time) models.Message {
	return c.append(senderID, text, ts)
}

// append adds a message to the ring buffer:
// - assigning the next sequence number
// - overwriting the oldest slot once the buffer is full
// - updating FirstSeq and LastSeq
func (c *Conversation) append(senderID, text string, ts time.Time) models.Message {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.lastSeq++
	msg := models.Message{
		ID:        uuid.NewString(),
		SenderID:  senderID,
		Text:      text,
		Timestamp: ts,
		Own:       senderID == c.selfID,
	}

	switch {
	case len(c.messages) < c.maxMessages:
		if c.firstSeq == -1 {
			c.firstSeq = c.lastSeq
		}
		c.messages = append(c.messages, msg)
		c.lastIndex++
	default:
		c.firstSeq++
		i := (c.lastIndex + 1) % c.maxMessages
		c.messages[i] = msg
		c.lastIndex = i
	}

	return msg
}

// ToggleReaction flips contactID's reaction on the message with the given
// id. Unknown ids are a silent no-op; the UI only offers ids it rendered,
// so a miss only happens when the message has already fallen off the ring.
func (c *Conversation) ToggleReaction(messageID, emoji, contactID string) bool {
	c.mux.Lock()
	defer c.mux.Unlock()

	for i := range c.messages {
		if c.messages[i].ID == messageID {
			c.messages[i].ToggleReaction(emoji, contactID)
			return true
		}
	}
	return false
}

// Get returns the message with the given id.
func (c *Conversation) Get(messageID string) (models.Message, error) {
	c.mux.RLock()
	defer c.mux.RUnlock()

	for i := range c.messages {
		if c.messages[i].ID == messageID {
			return c.messages[i], nil
		}
	}
	return models.Message{}, models.ErrNotFound
}

// Len returns the number of messages currently held.
func (c *Conversation) Len() int {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return len(c.messages)
}

// Range returns messages in [from, to) by sequence number, clamped to the
// range still present in the ring.
func (c *Conversation) Range(from, to Seq) []models.Message {
	c.mux.RLock()
	defer c.mux.RUnlock()

	if c.firstSeq == -1 {
		return []models.Message{}
	}

	// Clamp range
	if from < c.firstSeq {
		from = c.firstSeq
	}
	if to > c.lastSeq+1 {
		to = c.lastSeq + 1
	}
	if from >= to {
		return []models.Message{}
	}

	count := int(to - from)
	result := make([]models.Message, count)

	// Head index (oldest message)
	head := 0
	if len(c.messages) == c.maxMessages {
		head = (c.lastIndex + 1) % c.maxMessages
	}

	// Offset of 'from' relative to 'firstSeq'
	offset := int(from - c.firstSeq)

	startIdx := (head + offset) % len(c.messages)

	if startIdx+count <= len(c.messages) {
		copy(result, c.messages[startIdx:startIdx+count])
	} else {
		n1 := len(c.messages) - startIdx
		copy(result, c.messages[startIdx:])
		copy(result[n1:], c.messages[:count-n1])
	}

	return result
}

// Messages returns every held message in insertion order.
func (c *Conversation) Messages() []models.Message {
	c.mux.RLock()
	first, last := c.firstSeq, c.lastSeq
	c.mux.RUnlock()

	if first == -1 {
		return []models.Message{}
	}
	return c.Range(first, last+1)
}

// Last returns the most recent count messages in insertion order.
func (c *Conversation) Last(count int) []models.Message {
	c.mux.RLock()
	first, last := c.firstSeq, c.lastSeq
	c.mux.RUnlock()

	if last == -1 {
		return []models.Message{}
	}
	total := int(last - first + 1)
	if count > total {
		count = total
	}
	return c.Range(last-Seq(count)+1, last+1)
}
