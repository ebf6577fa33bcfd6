package progressionhandlers

import (
	"fmt"
	"strings"
	"time"

	progressionservice "github.com/Black-And-White-Club/malta-bot/app/modules/progression/application"
	progressiondomain "github.com/Black-And-White-Club/malta-bot/app/modules/progression/domain"
	"github.com/Black-And-White-Club/malta-bot/internal/discord"
	"github.com/bwmarrin/discordgo"
)

func statsEmbed(s progressionservice.PlayerStats, now time.Time) *discordgo.MessageEmbed {
	title := s.Username
	if title == "" {
		title = "Player"
	}

	progress := "MAX"
	if s.ExpToNext > 0 {
		progress = fmt.Sprintf("%d / %d", s.Exp, s.ExpToNext)
	}

	embed := discord.NewEmbed(title, discord.Mention(s.UserID), discord.ColorBlue)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Level", fmt.Sprint(s.Level), true),
		discord.Field("EXP", progress, true),
		discord.Field("Total EXP", fmt.Sprint(s.TotalExp), true),
		discord.Field("Gold", fmt.Sprint(s.Gold), true),
		discord.Field("Heirloom", fmt.Sprint(s.HeirloomPoints), true),
		discord.Field("Retirements", fmt.Sprint(s.Retirements), true),
		discord.Field("Multiplier", fmt.Sprintf("×%.2f", s.EffectiveMultiplier), true),
		discord.Field("Messages", fmt.Sprint(s.MessageCount), true),
	}
	if s.HappyHour.Active {
		embed.Fields = append(embed.Fields, discord.Field("Happy Hour", "Active 🍻", true))
	}
	return discord.WithFooter(embed, "Malta RPG", now)
}

func leaderboardEmbed(entries []progressionservice.LeaderboardEntry, now time.Time) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, e := range entries {
		name := e.Username
		if name == "" {
			name = discord.Mention(e.UserID)
		}
		fmt.Fprintf(&b, "**%d.** %s · level %d", e.Rank, name, e.Level)
		if e.Retirements > 0 {
			fmt.Fprintf(&b, ", %d retirement(s)", e.Retirements)
		}
		fmt.Fprintf(&b, " (%d EXP)\n", e.TotalExp)
	}
	return discord.WithFooter(discord.NewEmbed("Leaderboard", b.String(), discord.ColorGold), "Ranked by retirements, level, EXP", now)
}

func multiplierEmbed(s progressionservice.PlayerStats, loc *time.Location) *discordgo.MessageEmbed {
	hh := "Inactive"
	if s.HappyHour.Active {
		hh = fmt.Sprintf("Active until %s (×%g)", s.HappyHour.EndsAt.In(loc).Format("15:04"), progressiondomain.HappyHourMultiplier)
	} else if !s.HappyHour.NextStart.IsZero() {
		hh = fmt.Sprintf("Next at %s", s.HappyHour.NextStart.In(loc).Format("Mon 15:04"))
	}

	embed := discord.NewEmbed("Multipliers", discord.Mention(s.UserID), discord.ColorGreen)
	embed.Fields = []*discordgo.MessageEmbedField{
		discord.Field("Daily", fmt.Sprintf("×%.1f (max ×%.0f)", s.DailyMultiplier, progressiondomain.MaxDailyMultiplier), true),
		discord.Field("Generational", fmt.Sprintf("×%.2f (max ×%.2f)", s.GenerationalMultiplier, progressiondomain.MaxGenerationalMultiplier), true),
		discord.Field("Effective", fmt.Sprintf("×%.2f", s.EffectiveMultiplier), true),
		discord.Field("Happy Hour", hh, false),
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Post every day to raise your daily multiplier. It decays after 24h of silence."}
	return embed
}
