// Package hypixel wraps the Mojang and Hypixel APIs for Skyblock stat
// lookups.
package hypixel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	baseURL   = "https://api.hypixel.net/v2"
	mojangAPI = "https://api.mojang.com/users/profiles/minecraft"
)

type Client struct {
	apiKey string
	http   *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey, http: &http.Client{}}
}

// UUIDForUsername resolves a Minecraft username to its canonical dashed
// UUID via the Mojang API.
func (c *Client) UUIDForUsername(ctx context.Context, username string) (string, error) {
	body, status, err := c.get(ctx, mojangAPI+"/"+url.PathEscape(username))
	if err != nil {
		return "", err
	}
	if status == http.StatusNotFound || status == http.StatusNoContent {
		return "", fmt.Errorf("no Minecraft account named %q", username)
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("mojang lookup: status %d", status)
	}

	raw := gjson.GetBytes(body, "id").String()
	if raw == "" {
		return "", fmt.Errorf("mojang lookup: no id for %q", username)
	}
	// Mojang returns the UUID without dashes; normalize it.
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("mojang returned malformed uuid %q: %w", raw, err)
	}
	return id.String(), nil
}

// Player fetches the Hypixel player record.
func (c *Client) Player(ctx context.Context, playerUUID string) (gjson.Result, error) {
	res, err := c.hypixelGet(ctx, "/player", playerUUID)
	if err != nil {
		return gjson.Result{}, err
	}
	return res.Get("player"), nil
}

// SkyblockProfiles fetches all Skyblock profiles for a player.
func (c *Client) SkyblockProfiles(ctx context.Context, playerUUID string) (gjson.Result, error) {
	res, err := c.hypixelGet(ctx, "/skyblock/profiles", playerUUID)
	if err != nil {
		return gjson.Result{}, err
	}
	return res.Get("profiles"), nil
}

// ActiveProfile returns the profile the player most recently played, along
// with the player's own member data inside it. Selection follows the
// member's last_save, falling back to the profile marked selected.
func (c *Client) ActiveProfile(ctx context.Context, playerUUID string) (profile, member gjson.Result, err error) {
	profiles, err := c.SkyblockProfiles(ctx, playerUUID)
	if err != nil {
		return gjson.Result{}, gjson.Result{}, err
	}
	profile, member = selectActive(profiles, playerUUID)
	if !member.Exists() {
		return gjson.Result{}, gjson.Result{}, fmt.Errorf("no Skyblock profile found for %s", playerUUID)
	}
	return profile, member, nil
}

func selectActive(profiles gjson.Result, playerUUID string) (gjson.Result, gjson.Result) {
	memberKey := "members." + compactUUID(playerUUID)

	var bestProfile, bestMember gjson.Result
	var latestSave float64
	profiles.ForEach(func(_, p gjson.Result) bool {
		m := p.Get(memberKey)
		if !m.Exists() {
			return true
		}
		if p.Get("selected").Bool() && !bestMember.Exists() {
			bestProfile, bestMember = p, m
		}
		if save := m.Get("last_save").Float(); save > latestSave {
			latestSave = save
			bestProfile, bestMember = p, m
		}
		return true
	})
	return bestProfile, bestMember
}

// compactUUID strips dashes; Hypixel keys profile members by the
// undashed form.
func compactUUID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

func (c *Client) hypixelGet(ctx context.Context, path, playerUUID string) (gjson.Result, error) {
	u := fmt.Sprintf("%s%s?key=%s&uuid=%s", baseURL, path, url.QueryEscape(c.apiKey), url.QueryEscape(compactUUID(playerUUID)))
	body, status, err := c.get(ctx, u)
	if err != nil {
		return gjson.Result{}, err
	}
	if status != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("hypixel %s: status %d", path, status)
	}
	res := gjson.ParseBytes(body)
	if !res.Get("success").Bool() {
		return gjson.Result{}, fmt.Errorf("hypixel %s: %s", path, res.Get("cause").String())
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
