package db

import (
	"database/sql"
	"fmt"
)

// Profile links a Discord user to a Minecraft account.
type Profile struct {
	DiscordID         string `json:"discord_id"`
	MinecraftUsername string `json:"minecraft_username"`
	MinecraftUUID     string `json:"minecraft_uuid"`
	LinkedAt          string `json:"linked_at"`
}

// LinkProfile stores or replaces a Discord-to-Minecraft link.
func (d *DB) LinkProfile(discordID, username, uuid string) error {
	_, err := d.conn.Exec(
		`INSERT INTO user_profiles (discord_id, minecraft_username, minecraft_uuid)
		 VALUES (?, ?, ?)
		 ON CONFLICT(discord_id) DO UPDATE SET
		   minecraft_username = excluded.minecraft_username,
		   minecraft_uuid = excluded.minecraft_uuid,
		   linked_at = datetime('now')`,
		discordID, username, uuid,
	)
	if err != nil {
		return fmt.Errorf("linking profile: %w", err)
	}
	return nil
}

// GetProfile returns the link for a Discord user, or nil when none exists.
func (d *DB) GetProfile(discordID string) (*Profile, error) {
	var p Profile
	err := d.conn.QueryRow(
		"SELECT discord_id, minecraft_username, minecraft_uuid, linked_at FROM user_profiles WHERE discord_id = ?",
		discordID,
	).Scan(&p.DiscordID, &p.MinecraftUsername, &p.MinecraftUUID, &p.LinkedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return &p, nil
}

// UnlinkProfile removes a link. Returns whether a row was deleted.
func (d *DB) UnlinkProfile(discordID string) (bool, error) {
	res, err := d.conn.Exec("DELETE FROM user_profiles WHERE discord_id = ?", discordID)
	if err != nil {
		return false, fmt.Errorf("unlinking profile: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
