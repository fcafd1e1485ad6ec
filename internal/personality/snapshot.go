package personality

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the serialized form of a Tracker, used when personality
// persistence is enabled. Treated as opaque by the storage layer.
type Snapshot struct {
	Interactions int            `json:"interaction_count"`
	Topics       map[string]int `json:"topics"`
	Actors       map[string]int `json:"actor_interactions"`
	Traits       map[string]int `json:"traits"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Snapshot returns a copy of the full tracker state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		Interactions: t.interactions,
		Topics:       make(map[string]int, len(t.topics)),
		Actors:       make(map[string]int, len(t.actors)),
		Traits:       make(map[string]int, len(t.traits)),
		CreatedAt:    t.createdAt,
	}
	for k, v := range t.topics {
		s.Topics[k] = v
	}
	for k, v := range t.actors {
		s.Actors[k] = v
	}
	for k, v := range t.traits {
		s.Traits[k] = v
	}
	return s
}

// Restore replaces the tracker state with a previously captured snapshot.
// Traits unknown to this build are dropped; traits missing from the
// snapshot keep their defaults. Restored traits are clamped so a tampered
// snapshot cannot push a trait outside [0,100].
func (t *Tracker) Restore(s Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.interactions = s.Interactions
	t.topics = make(map[string]int, len(s.Topics))
	for k, v := range s.Topics {
		t.topics[k] = v
	}
	t.actors = make(map[string]int, len(s.Actors))
	for k, v := range s.Actors {
		t.actors[k] = v
	}
	t.traits = defaultTraits()
	for k, v := range s.Traits {
		if _, ok := t.traits[k]; !ok {
			continue
		}
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		t.traits[k] = v
	}
	if !s.CreatedAt.IsZero() {
		t.createdAt = s.CreatedAt
	}
}

// MarshalSnapshot encodes a snapshot as JSON for storage.
func MarshalSnapshot(s Snapshot) (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding personality snapshot: %w", err)
	}
	return string(b), nil
}

// UnmarshalSnapshot decodes a stored snapshot.
func UnmarshalSnapshot(data string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding personality snapshot: %w", err)
	}
	return s, nil
}
