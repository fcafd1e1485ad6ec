package discord

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/chris/disclaude/internal/agent"
	"github.com/chris/disclaude/internal/llm"
	"github.com/chris/disclaude/internal/remind"
)

// Discord caps messages at 2000 characters.
const messageLimit = 2000

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == s.State.User.ID {
		return
	}

	// Every message shapes the personality, addressed to the bot or not.
	b.personality.RecordInteraction(m.Author.ID, m.Content)

	if !b.addressed(s, m) {
		return
	}

	if !b.limiter.Allow(m.Author.ID, time.Now()) {
		b.reply(s, m, "⏱️ Rate limit exceeded. Please wait before sending more messages.")
		return
	}

	content := cleanAddress(m.Content, s.State.User.ID, s.State.User.Username)
	if content == "" {
		b.reply(s, m, "Hi! How can I help you?")
		return
	}

	if remind.IsReminderRequest(content) {
		if b.handleReminder(s, m, content) {
			return
		}
		// No parseable time; let the agent sort it out.
	}

	s.ChannelTyping(m.ChannelID)

	b.historiesMu.Lock()
	history := b.histories[m.ChannelID]
	b.historiesMu.Unlock()

	meta := agent.Meta{UserID: m.Author.ID, ChannelID: m.ChannelID, Username: m.Author.Username}
	reply, newHistory, err := b.agent.Run(context.Background(), history, content, meta)
	if err != nil {
		b.log.Error().Err(err).Str("channel", m.ChannelID).Msg("agent error")
		b.reply(s, m, "Something went wrong. Try again?")
		return
	}

	// Cap stored history using the same budget as the agent's context
	// window, keeping memory bounded.
	newHistory = llm.TrimMessages(newHistory, b.agent.MaxContextTokens)

	b.historiesMu.Lock()
	b.histories[m.ChannelID] = newHistory
	b.historiesMu.Unlock()

	for _, chunk := range splitMessage(reply, messageLimit) {
		s.ChannelMessageSend(m.ChannelID, chunk)
	}
}

// handleReminder schedules a reminder straight from the message, skipping
// the model. Returns false when no future time could be extracted.
func (b *Bot) handleReminder(s *discordgo.Session, m *discordgo.MessageCreate, content string) bool {
	fireAt, body, ok := b.parser.Extract(content, time.Now())
	if !ok {
		return false
	}

	id, err := b.reminders.Schedule(fireAt, m.ChannelID, m.Author.ID, body, b.Deliver, content)
	if err != nil {
		b.log.Error().Err(err).Msg("scheduling reminder")
		b.reply(s, m, "I couldn't set that reminder. Try again?")
		return true
	}

	b.log.Info().Int64("id", id).Time("fire_at", fireAt).Str("user", m.Author.ID).Msg("reminder scheduled")
	b.reply(s, m, "✅ Reminder #"+strconv.FormatInt(id, 10)+" set for "+fireAt.Format("Mon Jan 2 15:04")+" ("+remind.UntilPhrase(fireAt)+")")
	return true
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	_, err := s.ChannelMessageSendReply(m.ChannelID, content, m.Reference())
	if err != nil {
		b.log.Error().Err(err).Str("channel", m.ChannelID).Msg("sending reply")
	}
}

// addressed reports whether the message is for the bot: a DM, an
// @mention, or the bot's name appearing in the text.
func (b *Bot) addressed(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.GuildID == "" {
		return true
	}
	for _, u := range m.Mentions {
		if u.ID == s.State.User.ID {
			return true
		}
	}
	return strings.Contains(strings.ToLower(m.Content), strings.ToLower(s.State.User.Username))
}

// cleanAddress strips the bot's @mention and name from the message.
func cleanAddress(content, userID, botName string) string {
	content = strings.ReplaceAll(content, "<@"+userID+">", "")
	content = strings.ReplaceAll(content, "<@!"+userID+">", "")
	if botName != "" {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(botName) + `\b[,:]?\s*`)
		content = pattern.ReplaceAllString(content, "")
	}
	return strings.TrimSpace(content)
}

func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end > len(s) {
			end = len(s)
		}
		// Prefer splitting at a newline
		if idx := strings.LastIndex(s[:end], "\n"); idx > 0 && end == maxLen {
			end = idx + 1
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}
