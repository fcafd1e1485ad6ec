// Package agent runs the tool-calling loop that turns a user message into
// a final response, executing Skyblock, account-link, and reminder tools
// along the way.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chris/disclaude/internal/db"
	"github.com/chris/disclaude/internal/hypixel"
	"github.com/chris/disclaude/internal/llm"
	"github.com/chris/disclaude/internal/personality"
	"github.com/chris/disclaude/internal/remind"
)

const maxToolRounds = 10

// Meta carries the Discord context a tool call may need.
type Meta struct {
	UserID    string
	ChannelID string
	Username  string
}

type Agent struct {
	db               *db.DB
	client           llm.Client
	hypixel          *hypixel.Client
	reminders        *remind.Scheduler
	parser           *remind.Parser
	personality      *personality.Tracker
	deliver          remind.DeliverFunc
	MaxContextTokens int
	log              zerolog.Logger
}

type Deps struct {
	DB               *db.DB
	Client           llm.Client
	Hypixel          *hypixel.Client
	Reminders        *remind.Scheduler
	Parser           *remind.Parser
	Personality      *personality.Tracker
	Deliver          remind.DeliverFunc
	MaxContextTokens int
	Log              zerolog.Logger
}

func New(d Deps) *Agent {
	return &Agent{
		db:               d.DB,
		client:           d.Client,
		hypixel:          d.Hypixel,
		reminders:        d.Reminders,
		parser:           d.Parser,
		personality:      d.Personality,
		deliver:          d.Deliver,
		MaxContextTokens: d.MaxContextTokens,
		log:              d.Log,
	}
}

// SetDeliver installs the reminder delivery function after construction.
// The Discord session that delivers reminders is built after the agent.
func (a *Agent) SetDeliver(fn remind.DeliverFunc) {
	a.deliver = fn
}

// Run takes a user message, runs the tool-calling loop, and returns the
// final text response along with the updated history.
func (a *Agent) Run(ctx context.Context, history []llm.Message, userMessage string, meta Meta) (string, []llm.Message, error) {
	messages := make([]llm.Message, len(history))
	copy(messages, history)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})

	system := a.personality.SystemPrompt() + baseGuidelines
	tier := llm.ClassifyTier(userMessage)

	// Fixed costs: system prompt + tool definitions.
	fixedTokens := llm.EstimateTokens(system) + llm.EstimateToolsTokens(agentTools)
	messageBudget := a.MaxContextTokens - fixedTokens
	if messageBudget < 1000 {
		messageBudget = 1000 // floor so we always have room for at least the current turn
	}

	for i := 0; i < maxToolRounds; i++ {
		trimmed := llm.TrimMessages(messages, messageBudget)
		if len(trimmed) < len(messages) {
			a.log.Debug().Int("before", len(messages)).Int("after", len(trimmed)).Msg("context trimmed")
		}
		resp, err := a.client.Chat(ctx, llm.ChatRequest{
			System:   system,
			Messages: trimmed,
			Tools:    agentTools,
			Tier:     tier,
		})
		if err != nil {
			return "", nil, fmt.Errorf("llm chat: %w", err)
		}

		// No tool calls means we have a final answer.
		if len(resp.ToolCalls) == 0 {
			messages = append(messages, llm.Message{Role: "assistant", Content: resp.Content})
			return resp.Content, messages, nil
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		for _, tc := range resp.ToolCalls {
			result := a.executeTool(ctx, tc.Name, tc.Params, meta)
			a.log.Debug().Str("tool", tc.Name).Str("result", truncate(result, 200)).Msg("tool executed")
			messages = append(messages, llm.Message{
				Role:       "user",
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	return "I hit the maximum number of tool calls. Here's what I have so far.", messages, nil
}

func (a *Agent) executeTool(ctx context.Context, name string, params map[string]any, meta Meta) string {
	var result any
	var err error

	switch name {
	case "get_skyblock_stats":
		result, err = a.skyblockStats(ctx, a.targetUser(params, meta))

	case "link_minecraft_account":
		username, ok := getString(params, "minecraft_username")
		if !ok || username == "" {
			err = fmt.Errorf("minecraft_username is required")
			break
		}
		result, err = a.linkAccount(ctx, a.targetUser(params, meta), username)

	case "check_user_link_status":
		var profile *db.Profile
		profile, err = a.db.GetProfile(a.targetUser(params, meta))
		if err != nil {
			break
		}
		if profile == nil {
			result = map[string]any{"linked": false}
		} else {
			result = map[string]any{
				"linked":             true,
				"minecraft_username": profile.MinecraftUsername,
				"minecraft_uuid":     profile.MinecraftUUID,
			}
		}

	case "create_reminder":
		message, _ := getString(params, "message")
		timeSpec, _ := getString(params, "time")
		result, err = a.createReminder(meta, message, timeSpec)

	case "list_reminders":
		tasks := a.reminders.ListForOwner(meta.UserID)
		items := make([]map[string]any, 0, len(tasks))
		for _, t := range tasks {
			items = append(items, map[string]any{
				"id":       t.ID,
				"fires_at": t.FireAt.Format(time.RFC3339),
				"message":  t.Body,
			})
		}
		result = map[string]any{"reminders": items, "count": len(items)}

	case "cancel_reminder":
		id, ok := getInt(params, "reminder_id")
		if !ok {
			err = fmt.Errorf("reminder_id is required")
			break
		}
		if a.reminders.Cancel(id) {
			result = map[string]any{"status": "cancelled", "id": id}
		} else {
			result = map[string]any{"error": fmt.Sprintf("no pending reminder with id %d", id)}
		}

	case "get_current_time":
		now := time.Now()
		result = map[string]any{
			"local": now.Format(time.RFC3339),
			"utc":   now.UTC().Format(time.RFC3339),
			"date":  now.Format("2006-01-02"),
			"day":   now.Weekday().String(),
		}

	default:
		result = map[string]any{"error": "unknown tool: " + name}
	}

	if err != nil {
		result = map[string]any{"error": err.Error()}
	}

	b, _ := json.Marshal(result) // result is always a simple map or slice; marshal cannot fail
	return string(b)
}

// targetUser resolves the discord_id parameter, defaulting to the message
// author.
func (a *Agent) targetUser(params map[string]any, meta Meta) string {
	if id, ok := getString(params, "discord_id"); ok && id != "" {
		return id
	}
	return meta.UserID
}

func (a *Agent) skyblockStats(ctx context.Context, discordID string) (any, error) {
	profile, err := a.db.GetProfile(discordID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return map[string]any{"error": "no linked Minecraft account; use link_minecraft_account first"}, nil
	}

	sbProfile, member, err := a.hypixel.ActiveProfile(ctx, profile.MinecraftUUID)
	if err != nil {
		return nil, err
	}

	skills := hypixel.AnalyzeSkills(member)
	slayers := hypixel.AnalyzeSlayers(member)
	return map[string]any{
		"minecraft_username": profile.MinecraftUsername,
		"summary":            hypixel.ProfileSummary(member, sbProfile),
		"skill_average":      skills.SkillAverage,
		"total_slayer_xp":    slayers.TotalSlayerXP,
		"networth_estimate":  hypixel.EstimateNetworth(member, sbProfile),
		"tips":               hypixel.ProgressionTips(skills, slayers),
	}, nil
}

func (a *Agent) linkAccount(ctx context.Context, discordID, username string) (any, error) {
	uuid, err := a.hypixel.UUIDForUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := a.db.LinkProfile(discordID, username, uuid); err != nil {
		return nil, err
	}
	return map[string]any{
		"status":             "linked",
		"minecraft_username": username,
		"minecraft_uuid":     uuid,
	}, nil
}

func (a *Agent) createReminder(meta Meta, message, timeSpec string) (any, error) {
	if message == "" || timeSpec == "" {
		return nil, fmt.Errorf("message and time are required")
	}

	fireAt, err := parseFireTime(a.parser, timeSpec)
	if err != nil {
		return nil, err
	}
	if !fireAt.After(time.Now()) {
		return nil, fmt.Errorf("reminder time %s is in the past", fireAt.Format(time.RFC3339))
	}

	id, err := a.reminders.Schedule(fireAt, meta.ChannelID, meta.UserID, message, a.deliver, "")
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":   "created",
		"id":       id,
		"fires_at": fireAt.Format(time.RFC3339),
		"fires_in": remind.UntilPhrase(fireAt),
	}, nil
}

// parseFireTime accepts RFC 3339 first, then falls back to the natural
// language parser.
func parseFireTime(p *remind.Parser, spec string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t, nil
	}
	if t, _, ok := p.Extract("remind me "+spec, time.Now()); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("could not understand time %q", spec)
}

// Param extraction helpers; models send numbers as float64 in JSON.
func getInt(params map[string]any, key string) (int64, bool) {
	v, ok := params[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}

func getString(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
