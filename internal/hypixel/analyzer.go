package hypixel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
)

// skillXP holds cumulative XP required for each skill level.
var skillXP = []float64{
	0, 50, 175, 375, 675, 1175, 1925, 2925, 4425, 6425,
	9925, 14925, 22425, 32425, 47425, 67425, 97425, 147425,
	222425, 322425, 522425, 822425, 1222425, 1722425, 2322425,
	3022425, 3822425, 4722425, 5722425, 6822425, 8022425, 9322425,
	10722425, 12222425, 13822425, 15522425, 17322425, 19222425,
	21222425, 23322425, 25522425, 27822425, 30222425, 32722425,
	35322425, 38072425, 40972425, 44072425, 47472425, 51172425,
	55172425, 59472425, 64072425, 68972425, 74172425, 79672425,
	85472425, 91572425, 97972425, 104672425, 111672425,
}

var skillNames = []string{
	"farming", "mining", "combat", "foraging", "fishing",
	"enchanting", "alchemy", "taming", "carpentry", "runecrafting", "social",
}

// Skills excluded from the skill average.
var averageExcluded = map[string]bool{
	"carpentry":    true,
	"runecrafting": true,
	"social":       true,
}

type SkillInfo struct {
	Level    int
	XP       float64
	Progress float64
}

type SkillsReport struct {
	Skills          map[string]SkillInfo
	SkillAverage    float64
	TotalSkillLevel int
}

type SlayerInfo struct {
	XP    float64
	Kills int64
}

type SlayersReport struct {
	Slayers       map[string]SlayerInfo
	TotalSlayerXP float64
}

// SkillLevel converts cumulative XP to a level and percent progress toward
// the next one. Runecrafting and social cap at 25, everything else at 60.
func SkillLevel(xp float64, skill string) (int, float64) {
	maxLevel := 60
	switch strings.ToLower(skill) {
	case "runecrafting", "social":
		maxLevel = 25
	}

	level := 0
	for i, required := range skillXP {
		if i > maxLevel {
			break
		}
		if xp >= required {
			level = i
		} else {
			break
		}
	}

	if level >= maxLevel {
		return level, 100.0
	}
	cur := skillXP[level]
	next := skillXP[level+1]
	return level, (xp - cur) / (next - cur) * 100
}

// AnalyzeSkills computes levels for every skill from the member's raw
// experience fields. Carpentry, runecrafting and social are reported but
// left out of the average.
func AnalyzeSkills(member gjson.Result) SkillsReport {
	report := SkillsReport{Skills: make(map[string]SkillInfo, len(skillNames))}

	counted := 0
	for _, skill := range skillNames {
		xp := member.Get("experience_skill_" + skill).Float()
		level, progress := SkillLevel(xp, skill)
		report.Skills[skill] = SkillInfo{Level: level, XP: xp, Progress: progress}

		if !averageExcluded[skill] {
			report.TotalSkillLevel += level
			counted++
		}
	}
	if counted > 0 {
		report.SkillAverage = float64(report.TotalSkillLevel) / float64(counted)
	}
	return report
}

// AnalyzeSlayers totals slayer XP and boss kills across tiers.
func AnalyzeSlayers(member gjson.Result) SlayersReport {
	report := SlayersReport{Slayers: make(map[string]SlayerInfo)}

	member.Get("slayer.slayer_bosses").ForEach(func(name, boss gjson.Result) bool {
		xp := boss.Get("xp").Float()
		var kills int64
		for tier := 0; tier <= 4; tier++ {
			kills += boss.Get(fmt.Sprintf("boss_kills_tier_%d", tier)).Int()
		}
		report.Slayers[name.String()] = SlayerInfo{XP: xp, Kills: kills}
		report.TotalSlayerXP += xp
		return true
	})
	return report
}

// EstimateNetworth is a rough purse-plus-bank figure; it ignores items.
func EstimateNetworth(member, profile gjson.Result) float64 {
	return member.Get("coin_purse").Float() + profile.Get("banking.balance").Float()
}

// ProfileSummary renders a Discord-ready overview of a profile.
func ProfileSummary(member, profile gjson.Result) string {
	var b strings.Builder

	name := profile.Get("cute_name").String()
	if name == "" {
		name = "Unknown"
	}
	fmt.Fprintf(&b, "🏝️ **Skyblock Profile: %s**\n\n", name)

	skills := AnalyzeSkills(member)
	fmt.Fprintf(&b, "📊 **Skill Average:** %.1f\n\n", skills.SkillAverage)

	b.WriteString("**Top Skills:**\n")
	for _, skill := range topSkills(skills, 3) {
		info := skills.Skills[skill]
		fmt.Fprintf(&b, "%s\n", formatSkill(skill, info))
	}

	slayers := AnalyzeSlayers(member)
	fmt.Fprintf(&b, "\n⚔️ **Total Slayer XP:** %s", humanize.Commaf(slayers.TotalSlayerXP))

	fmt.Fprintf(&b, "\n💰 **Purse:** %s coins", humanize.Commaf(member.Get("coin_purse").Float()))
	if bank := profile.Get("banking.balance").Float(); bank > 0 {
		fmt.Fprintf(&b, "\n🏦 **Bank:** %s coins", humanize.Commaf(bank))
	}
	return b.String()
}

// topSkills returns the n highest-level skill names, ties broken by name
// so output is stable.
func topSkills(report SkillsReport, n int) []string {
	names := make([]string, 0, len(report.Skills))
	for name := range report.Skills {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := report.Skills[names[i]], report.Skills[names[j]]
		if a.Level != b.Level {
			return a.Level > b.Level
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func formatSkill(name string, info SkillInfo) string {
	filled := int(info.Progress / 10)
	if filled > 10 {
		filled = 10
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
	title := strings.ToUpper(name[:1]) + name[1:]
	return fmt.Sprintf("**%s** %d %s %.1f%%", title, info.Level, bar, info.Progress)
}
