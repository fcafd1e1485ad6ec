package agent

import "github.com/chris/disclaude/internal/llm"

var agentTools = []llm.Tool{
	{
		Name: "get_skyblock_stats",
		Description: "Get Hypixel Skyblock statistics for a Discord user. " +
			"Returns skill levels, skill average, profile name, and progression tips. " +
			"The user must have linked their Minecraft account first using link_minecraft_account.",
		Parameters: obj(map[string]any{
			"discord_id": prop("string", "Discord user ID; defaults to the message author"),
		}),
	},
	{
		Name: "link_minecraft_account",
		Description: "Link a Discord user to their Minecraft account. " +
			"Fetches the UUID from the Mojang API and stores the link in the database.",
		Parameters: objReq(map[string]any{
			"minecraft_username": prop("string", "Minecraft username (case-insensitive)"),
			"discord_id":         prop("string", "Discord user ID; defaults to the message author"),
		}, "minecraft_username"),
	},
	{
		Name: "check_user_link_status",
		Description: "Check if a Discord user has linked their Minecraft account. " +
			"Returns the linked username and UUID if available.",
		Parameters: obj(map[string]any{
			"discord_id": prop("string", "Discord user ID; defaults to the message author"),
		}),
	},
	{
		Name: "create_reminder",
		Description: "Create a one-shot reminder delivered in the current channel. " +
			"Accepts an ISO 8601 timestamp or a natural phrase like 'in 20 minutes'. " +
			"Call get_current_time first when computing an absolute timestamp.",
		Parameters: objReq(map[string]any{
			"message": prop("string", "The reminder message content"),
			"time":    prop("string", "When to fire: ISO 8601 (e.g. '2026-03-15T14:30:00Z') or a natural phrase"),
		}, "message", "time"),
	},
	{
		Name:        "list_reminders",
		Description: "List the requesting user's pending reminders.",
		Parameters:  obj(nil),
	},
	{
		Name:        "cancel_reminder",
		Description: "Cancel a pending reminder by ID.",
		Parameters: objReq(map[string]any{
			"reminder_id": prop("integer", "Reminder ID to cancel"),
		}, "reminder_id"),
	},
	{
		Name:        "get_current_time",
		Description: "Get the current date and time. Use this before creating reminders with absolute timestamps.",
		Parameters:  obj(nil),
	},
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func obj(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
	}
}

func objReq(properties map[string]any, required ...string) map[string]any {
	s := obj(properties)
	s["required"] = required
	return s
}
