package roster

import (
	"fmt"
	"sort"
	"sync"

	"parlor/internal/models"
)

// Roster holds the fixed set of contacts plus the local user. Contacts are
// never added or removed after construction; the only mutation is the local
// user's own status.
type Roster struct {
	selfID   string
	contacts map[string]models.Contact

	mu sync.RWMutex
}

func New(selfID string, contacts []models.Contact) (*Roster, error) {
	r := &Roster{
		selfID:   selfID,
		contacts: make(map[string]models.Contact, len(contacts)),
	}
	for _, c := range contacts {
		if _, ok := r.contacts[c.ID]; ok {
			return nil, fmt.Errorf("duplicate contact id %q", c.ID)
		}
		r.contacts[c.ID] = c
	}
	if _, ok := r.contacts[selfID]; !ok {
		return nil, fmt.Errorf("local user %q is not in the roster", selfID)
	}
	return r, nil
}

func (r *Roster) SelfID() string {
	return r.selfID
}

func (r *Roster) Self() models.Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contacts[r.selfID]
}

func (r *Roster) Get(id string) (models.Contact, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contacts[id]
	return c, ok
}

// SetOwnStatus updates the local user's presence. Other contacts cannot be
// touched through this path. Unknown status values are ignored.
func (r *Roster) SetOwnStatus(status models.Status) {
	if !status.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	self := r.contacts[r.selfID]
	self.Status = status
	r.contacts[r.selfID] = self
}

// All returns every contact sorted by display name.
func (r *Roster) All() []models.Contact {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contacts := make([]models.Contact, 0, len(r.contacts))
	for _, c := range r.contacts {
		contacts = append(contacts, c)
	}
	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].Name < contacts[j].Name
	})
	return contacts
}

// Partition splits the roster into online and offline subsets. A contact is
// online when its status is anything but offline, so busy and away count as
// online. Every contact lands in exactly one subset; both keep the
// name-sorted order of All.
func (r *Roster) Partition() (online, offline []models.Contact) {
	for _, c := range r.All() {
		if c.Status != models.StatusOffline {
			online = append(online, c)
		} else {
			offline = append(offline, c)
		}
	}
	return online, offline
}
