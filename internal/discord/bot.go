// Package discord connects the bot to Discord: message gating, rate
// limiting, reminder intake, and the agent conversation path.
package discord

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/chris/disclaude/internal/agent"
	"github.com/chris/disclaude/internal/llm"
	"github.com/chris/disclaude/internal/personality"
	"github.com/chris/disclaude/internal/remind"
)

type Bot struct {
	session     *discordgo.Session
	agent       *agent.Agent
	personality *personality.Tracker
	reminders   *remind.Scheduler
	parser      *remind.Parser
	limiter     *rateLimiter
	log         zerolog.Logger

	historiesMu sync.Mutex
	histories   map[string][]llm.Message
}

type Options struct {
	Token           string
	Agent           *agent.Agent
	Personality     *personality.Tracker
	Reminders       *remind.Scheduler
	Parser          *remind.Parser
	RateLimitCount  int
	RateLimitWindow time.Duration
	Log             zerolog.Logger
}

func NewBot(opts Options) (*Bot, error) {
	s, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{
		session:     s,
		agent:       opts.Agent,
		personality: opts.Personality,
		reminders:   opts.Reminders,
		parser:      opts.Parser,
		limiter:     newRateLimiter(opts.RateLimitCount, opts.RateLimitWindow),
		log:         opts.Log,
		histories:   make(map[string][]llm.Message),
	}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	bot.log.Info().Str("username", s.State.User.Username).Msg("connected to Discord")
	return bot, nil
}

// Deliver sends reminder content to a channel. It satisfies
// remind.DeliverFunc.
func (b *Bot) Deliver(channelID, content string) error {
	for _, chunk := range splitMessage(content, messageLimit) {
		if _, err := b.session.ChannelMessageSend(channelID, chunk); err != nil {
			return fmt.Errorf("sending to channel %s: %w", channelID, err)
		}
	}
	return nil
}

func (b *Bot) Close() {
	b.session.Close()
}

// rateLimiter tracks per-user message timestamps in a sliding window.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	seen   map[string][]time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{limit: limit, window: window, seen: make(map[string][]time.Time)}
}

// Allow reports whether the user may send another message now, recording
// the attempt when permitted.
func (r *rateLimiter) Allow(userID string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.window)
	stamps := r.seen[userID]
	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= r.limit {
		r.seen[userID] = kept
		return false
	}
	r.seen[userID] = append(kept, now)
	return true
}
