package hypixel

import (
	"math"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestSkillLevel(t *testing.T) {
	tests := []struct {
		name      string
		xp        float64
		skill     string
		wantLevel int
	}{
		{"zero xp", 0, "farming", 0},
		{"just below level 1", 49, "farming", 0},
		{"exactly level 1", 50, "farming", 1},
		{"mid table", 9925, "mining", 10},
		{"max level", 111672425, "combat", 60},
		{"beyond max", 999999999, "combat", 60},
		{"runecrafting caps at 25", 111672425, "runecrafting", 25},
		{"social caps at 25", 111672425, "social", 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, _ := SkillLevel(tt.xp, tt.skill)
			if level != tt.wantLevel {
				t.Errorf("SkillLevel(%v, %q) = %d, want %d", tt.xp, tt.skill, level, tt.wantLevel)
			}
		})
	}
}

func TestSkillLevelProgress(t *testing.T) {
	// Level 1 spans 50..175; halfway is 112.5.
	level, progress := SkillLevel(112.5, "farming")
	if level != 1 {
		t.Fatalf("level = %d, want 1", level)
	}
	if math.Abs(progress-50) > 0.01 {
		t.Errorf("progress = %v, want 50", progress)
	}

	_, capped := SkillLevel(999999999, "combat")
	if capped != 100 {
		t.Errorf("progress at cap = %v, want 100", capped)
	}
}

func TestAnalyzeSkills(t *testing.T) {
	member := gjson.Parse(`{
		"experience_skill_farming": 50,
		"experience_skill_mining": 175,
		"experience_skill_combat": 375,
		"experience_skill_carpentry": 111672425,
		"experience_skill_runecrafting": 111672425
	}`)

	report := AnalyzeSkills(member)

	if got := report.Skills["farming"].Level; got != 1 {
		t.Errorf("farming level = %d, want 1", got)
	}
	if got := report.Skills["carpentry"].Level; got != 60 {
		t.Errorf("carpentry level = %d, want 60", got)
	}

	// Average covers the eight counted skills only: carpentry,
	// runecrafting and social stay out despite their levels.
	if report.TotalSkillLevel != 1+2+3 {
		t.Errorf("total skill level = %d, want 6", report.TotalSkillLevel)
	}
	if math.Abs(report.SkillAverage-6.0/8.0) > 0.001 {
		t.Errorf("skill average = %v, want %v", report.SkillAverage, 6.0/8.0)
	}
}

func TestAnalyzeSlayers(t *testing.T) {
	member := gjson.Parse(`{
		"slayer": {"slayer_bosses": {
			"zombie": {"xp": 5000, "boss_kills_tier_0": 10, "boss_kills_tier_1": 5},
			"spider": {"xp": 1500, "boss_kills_tier_0": 3}
		}}
	}`)

	report := AnalyzeSlayers(member)

	if report.TotalSlayerXP != 6500 {
		t.Errorf("total slayer xp = %v, want 6500", report.TotalSlayerXP)
	}
	if got := report.Slayers["zombie"].Kills; got != 15 {
		t.Errorf("zombie kills = %d, want 15", got)
	}
	if got := report.Slayers["spider"].Kills; got != 3 {
		t.Errorf("spider kills = %d, want 3", got)
	}
}

func TestAnalyzeSlayersEmpty(t *testing.T) {
	report := AnalyzeSlayers(gjson.Parse(`{}`))
	if report.TotalSlayerXP != 0 || len(report.Slayers) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestEstimateNetworth(t *testing.T) {
	member := gjson.Parse(`{"coin_purse": 1500000}`)
	profile := gjson.Parse(`{"banking": {"balance": 2500000}}`)

	if got := EstimateNetworth(member, profile); got != 4000000 {
		t.Errorf("networth = %v, want 4000000", got)
	}
	if got := EstimateNetworth(member, gjson.Parse(`{}`)); got != 1500000 {
		t.Errorf("networth without bank = %v, want 1500000", got)
	}
}

func TestProfileSummary(t *testing.T) {
	member := gjson.Parse(`{
		"experience_skill_combat": 9925,
		"experience_skill_mining": 675,
		"coin_purse": 1234567
	}`)
	profile := gjson.Parse(`{"cute_name": "Papaya", "banking": {"balance": 100}}`)

	out := ProfileSummary(member, profile)

	for _, want := range []string{"Papaya", "Combat", "Skill Average", "1,234,567"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSelectActive(t *testing.T) {
	const id = "069a79f4-44e9-4726-a5be-fca90e38aaf5"

	profiles := gjson.Parse(`[
		{"cute_name": "Old", "members": {"069a79f444e94726a5befca90e38aaf5": {"last_save": 100}}},
		{"cute_name": "Current", "selected": true, "members": {"069a79f444e94726a5befca90e38aaf5": {"last_save": 900}}},
		{"cute_name": "Other", "members": {"ffffffffffffffffffffffffffffffff": {"last_save": 5000}}}
	]`)

	profile, member := selectActive(profiles, id)
	if got := profile.Get("cute_name").String(); got != "Current" {
		t.Errorf("active profile = %q, want Current", got)
	}
	if got := member.Get("last_save").Float(); got != 900 {
		t.Errorf("member last_save = %v, want 900", got)
	}
}

func TestProgressionTips(t *testing.T) {
	lowSkills := SkillsReport{SkillAverage: 5, Skills: map[string]SkillInfo{}}
	tips := ProgressionTips(lowSkills, SlayersReport{})
	if len(tips) == 0 {
		t.Fatal("expected tips for a fresh profile")
	}
	if !strings.Contains(tips[0], "Early Game") {
		t.Errorf("first tip = %q, want early game advice", tips[0])
	}
	if len(tips) > maxTips {
		t.Errorf("got %d tips, cap is %d", len(tips), maxTips)
	}

	strong := SkillsReport{SkillAverage: 45, Skills: map[string]SkillInfo{
		"combat": {Level: 50}, "mining": {Level: 45},
	}}
	slayers := SlayersReport{TotalSlayerXP: 5000000, Slayers: map[string]SlayerInfo{
		"zombie": {XP: 1000000},
	}}
	tips = ProgressionTips(strong, slayers)
	if len(tips) != 1 || !strings.Contains(tips[0], "Doing Great") {
		t.Errorf("expected the fallback tip, got %v", tips)
	}
}
