package hypixel

import (
	"fmt"
	"sort"
	"strings"
)

const maxTips = 5

// ProgressionTips suggests next steps based on analyzed skills and
// slayers.
func ProgressionTips(skills SkillsReport, slayers SlayersReport) []string {
	var tips []string

	if skills.SkillAverage < 15 {
		tips = append(tips, "🌱 **Early Game Focus**: Your skill average is low. Focus on leveling combat, farming, and mining for a solid foundation.")
	}
	if skills.SkillAverage < 30 {
		tips = append(tips, "📈 **Mid-Game Grind**: Work on getting all skills to level 20+ for better gear access and money-making methods.")
	}

	var weak []string
	for name, info := range skills.Skills {
		if averageExcluded[name] {
			continue
		}
		if float64(info.Level) < skills.SkillAverage-5 {
			weak = append(weak, name)
		}
	}
	sort.Strings(weak)
	if len(weak) > 0 {
		if len(weak) > 3 {
			weak = weak[:3]
		}
		tips = append(tips, fmt.Sprintf("⚠️ **Weak Skills**: Your %s skills are lagging behind. Balance them for better progression.", strings.Join(weak, ", ")))
	}

	if slayers.TotalSlayerXP < 100000 {
		tips = append(tips, "⚔️ **Start Slayers**: Begin doing slayer quests! They're essential for combat progression and coins.")
	}
	if slayers.TotalSlayerXP > 0 {
		names := make([]string, 0, len(slayers.Slayers))
		for name := range slayers.Slayers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if slayers.Slayers[name].XP < 10000 {
				title := strings.ToUpper(name[:1]) + name[1:]
				tips = append(tips, fmt.Sprintf("🎯 **%s Slayer**: You haven't progressed much in %s. Try some runs!", title, name))
			}
		}
	}

	if len(tips) == 0 {
		tips = append(tips, "✨ **Doing Great!** Keep grinding and set specific goals. Consider working toward dungeons or getting minion slots!")
	}
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}
