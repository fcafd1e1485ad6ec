// Package personality tracks a small set of bounded conversational traits
// that drift with observed interactions, and renders them into a system
// prompt for the LLM.
package personality

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Trait names. Each trait is an integer in [0,100].
const (
	Friendliness = "friendliness" // cold to warm
	Formality    = "formality"    // casual to formal
	Humor        = "humor"        // serious to humorous
	Verbosity    = "verbosity"    // concise to verbose
	Helpfulness  = "helpfulness"  // minimal to maximum effort
)

func defaultTraits() map[string]int {
	return map[string]int{
		Friendliness: 50,
		Formality:    50,
		Humor:        50,
		Verbosity:    50,
		Helpfulness:  70,
	}
}

// effect is a signed delta applied to one trait.
type effect struct {
	trait string
	delta int
}

// signal maps a keyword set to a topic counter and trait effects. Keeping
// these as data rather than branches lets the behavior be tested and
// swapped independently of the matching loop.
type signal struct {
	topic    string
	keywords []string
	effects  []effect
}

var signals = []signal{
	{
		topic:    "coding",
		keywords: []string{"code", "program", "function", "bug", "error"},
		effects:  []effect{{Formality, 5}, {Verbosity, -3}},
	},
	{
		topic:    "polite",
		keywords: []string{"help", "please", "thanks", "thank you"},
		effects:  []effect{{Friendliness, 3}},
	},
	{
		topic:    "humor",
		keywords: []string{"lol", "haha", "funny", "😂", "🤣"},
		effects:  []effect{{Humor, 5}, {Formality, -5}},
	},
	{
		topic:    "detailed",
		keywords: []string{"explain", "detail", "elaborate", "more"},
		effects:  []effect{{Verbosity, 5}, {Helpfulness, 3}},
	},
	{
		topic:    "brief",
		keywords: []string{"quick", "brief", "short", "tldr"},
		effects:  []effect{{Verbosity, -5}},
	},
}

// evolutionInterval is how many interactions pass between natural
// evolution passes that pull extreme traits back toward the middle band.
const evolutionInterval = 10

// Tracker holds the evolving personality state. All methods are safe for
// concurrent use; discordgo dispatches handlers on separate goroutines.
type Tracker struct {
	mu           sync.Mutex
	traits       map[string]int
	topics       map[string]int
	actors       map[string]int
	interactions int
	createdAt    time.Time
}

func New() *Tracker {
	return &Tracker{
		traits:    defaultTraits(),
		topics:    make(map[string]int),
		actors:    make(map[string]int),
		createdAt: time.Now(),
	}
}

// RecordInteraction observes one utterance and adjusts state. Matching is
// case-insensitive substring matching; multiple signals may match the same
// text and all of their effects apply. Every tenth interaction triggers a
// natural evolution pass. Fully deterministic for a fixed call sequence.
func (t *Tracker) RecordInteraction(actorID, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.interactions++
	t.actors[actorID]++

	lower := strings.ToLower(content)
	for _, sig := range signals {
		if !matchesAny(lower, sig.keywords) {
			continue
		}
		t.topics[sig.topic]++
		for _, e := range sig.effects {
			t.adjust(e.trait, e.delta)
		}
	}

	if t.interactions%evolutionInterval == 0 {
		t.naturalEvolution()
	}
}

func matchesAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// adjust applies a delta to a trait, clamped to [0,100]. Callers hold the lock.
func (t *Tracker) adjust(trait string, delta int) {
	v, ok := t.traits[trait]
	if !ok {
		return
	}
	v += delta
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	t.traits[trait] = v
}

// naturalEvolution nudges every trait outside [40,60] one step toward the
// band. A single pass never moves a trait past the band boundary.
func (t *Tracker) naturalEvolution() {
	for trait, v := range t.traits {
		switch {
		case v > 60:
			t.adjust(trait, -1)
		case v < 40:
			t.adjust(trait, 1)
		}
	}
}

// SystemPrompt renders the current state into prompt text. Pure read; the
// result is always non-empty.
func (t *Tracker) SystemPrompt() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.systemPromptLocked()
}

func (t *Tracker) systemPromptLocked() string {
	parts := []string{
		"You are DisClaude, a helpful Discord assistant powered by Claude AI.",
	}

	switch {
	case t.traits[Friendliness] > 70:
		parts = append(parts, "You are warm, enthusiastic, and use friendly emojis occasionally.")
	case t.traits[Friendliness] > 40:
		parts = append(parts, "You are friendly and approachable.")
	default:
		parts = append(parts, "You are professional and direct.")
	}

	if t.traits[Formality] > 70 {
		parts = append(parts, "You communicate formally and professionally.")
	} else if t.traits[Formality] < 30 {
		parts = append(parts, "You use casual language and can be playful.")
	}

	if t.traits[Humor] > 70 {
		parts = append(parts, "You enjoy witty remarks and occasional jokes.")
	} else if t.traits[Humor] > 40 {
		parts = append(parts, "You can make light jokes when appropriate.")
	}

	if t.traits[Verbosity] > 70 {
		parts = append(parts, "You provide detailed, comprehensive explanations.")
	} else if t.traits[Verbosity] < 30 {
		parts = append(parts, "You keep responses concise and to the point.")
	}

	if t.traits[Helpfulness] > 80 {
		parts = append(parts, "You go above and beyond to help users, offering examples and alternatives.")
	} else if t.traits[Helpfulness] > 50 {
		parts = append(parts, "You are helpful and thorough in your responses.")
	}

	if t.interactions > 100 {
		parts = append(parts, fmt.Sprintf("You've had %d conversations and have developed a mature, experienced tone.", t.interactions))
	} else if t.interactions > 20 {
		parts = append(parts, "You're becoming familiar with the community.")
	}

	if topic, count := t.topTopicLocked(); count > 10 {
		if clause, ok := topicClauses[topic]; ok {
			parts = append(parts, clause)
		}
	}

	return strings.Join(parts, " ")
}

var topicClauses = map[string]string{
	"coding":   "You're particularly knowledgeable about programming.",
	"humor":    "You've noticed this community enjoys humor.",
	"polite":   "You've noticed this community values courtesy.",
	"detailed": "You've noticed this community appreciates thorough answers.",
	"brief":    "You've noticed this community prefers short answers.",
}

// topTopicLocked returns the most frequent topic. Ties break toward the
// lexicographically smaller name so the output is reproducible.
func (t *Tracker) topTopicLocked() (string, int) {
	var top string
	count := 0
	for topic, c := range t.topics {
		if c > count || (c == count && (top == "" || topic < top)) {
			top, count = topic, c
		}
	}
	return top, count
}

// Summary is a read-only projection for display and introspection.
type Summary struct {
	Traits       map[string]int `json:"traits"`
	Interactions int            `json:"interactions"`
	UniqueActors int            `json:"unique_actors"`
	TopTopics    []TopicCount   `json:"top_topics"`
	UptimeHours  float64        `json:"uptime_hours"`
	SystemPrompt string         `json:"system_prompt"`
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	traits := make(map[string]int, len(t.traits))
	for k, v := range t.traits {
		traits[k] = v
	}

	topics := make([]TopicCount, 0, len(t.topics))
	for topic, c := range t.topics {
		topics = append(topics, TopicCount{Topic: topic, Count: c})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Topic < topics[j].Topic
	})
	if len(topics) > 5 {
		topics = topics[:5]
	}

	return Summary{
		Traits:       traits,
		Interactions: t.interactions,
		UniqueActors: len(t.actors),
		TopTopics:    topics,
		UptimeHours:  time.Since(t.createdAt).Hours(),
		SystemPrompt: t.systemPromptLocked(),
	}
}

// Reset discards all accumulated state and returns to the defaults.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.traits = defaultTraits()
	t.topics = make(map[string]int)
	t.actors = make(map[string]int)
	t.interactions = 0
	t.createdAt = time.Now()
}
