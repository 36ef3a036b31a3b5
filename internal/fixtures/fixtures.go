package fixtures

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"parlor/internal/models"
)

//go:embed dataset.yaml
var embedded []byte

// TranscriptEntry seeds one message of the opening conversation. DaysAgo
// and At place it relative to startup time so the transcript always spans
// today, yesterday, and an older day regardless of when the demo runs.
type TranscriptEntry struct {
	SenderID string `yaml:"senderId"`
	Text     string `yaml:"text"`
	DaysAgo  int    `yaml:"daysAgo"`
	At       string `yaml:"at,omitempty"`
}

// Dataset is the complete mock world: the roster, the opening transcript,
// and the canned lines the simulator draws from.
type Dataset struct {
	SelfID     string            `yaml:"selfId"`
	Contacts   []models.Contact  `yaml:"contacts"`
	Transcript []TranscriptEntry `yaml:"transcript"`
	Lines      []string          `yaml:"lines"`
}

// Load reads a dataset from path, or the embedded default when path is
// empty.
func Load(path string) (Dataset, error) {
	data := embedded
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return Dataset{}, fmt.Errorf("read dataset: %w", err)
		}
		data = fileData
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return Dataset{}, fmt.Errorf("invalid dataset: %w", err)
	}
	return ds, nil
}

func (d Dataset) Validate() error {
	if d.SelfID == "" {
		return fmt.Errorf("selfId is required")
	}
	if len(d.Contacts) == 0 {
		return fmt.Errorf("at least one contact is required")
	}

	known := make(map[string]bool, len(d.Contacts))
	for _, c := range d.Contacts {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("contact id and name are required")
		}
		if known[c.ID] {
			return fmt.Errorf("duplicate contact id %q", c.ID)
		}
		if !c.Status.Valid() {
			return fmt.Errorf("contact %q has unknown status %q", c.ID, c.Status)
		}
		known[c.ID] = true
	}
	if !known[d.SelfID] {
		return fmt.Errorf("selfId %q is not in the contact list", d.SelfID)
	}

	for i, entry := range d.Transcript {
		if !known[entry.SenderID] {
			return fmt.Errorf("transcript entry %d: unknown sender %q", i, entry.SenderID)
		}
		if entry.DaysAgo < 0 {
			return fmt.Errorf("transcript entry %d: daysAgo must not be negative", i)
		}
		if entry.At != "" {
			if _, err := time.Parse("15:04", entry.At); err != nil {
				return fmt.Errorf("transcript entry %d: bad time %q", i, entry.At)
			}
		}
	}

	if len(d.Lines) == 0 {
		return fmt.Errorf("at least one canned line is required")
	}
	return nil
}

// Timestamp resolves a transcript entry to a concrete time relative to now.
func (e TranscriptEntry) Timestamp(now time.Time) time.Time {
	day := now.AddDate(0, 0, -e.DaysAgo)
	if e.At == "" {
		return day
	}
	clock, err := time.Parse("15:04", e.At)
	if err != nil {
		return day
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
