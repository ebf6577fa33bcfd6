package progressiondomain

const (
	// MaxLevel is the level cap; EXP earned at the cap is discarded.
	MaxLevel = 38
	// LevelUpGoldPerLevel is multiplied by the new level for every level gained.
	LevelUpGoldPerLevel = 25
)

// ExpToNext returns the EXP required to go from level to level+1.
func ExpToNext(level int) int64 {
	if level < 1 || level >= MaxLevel {
		return 0
	}
	l := int64(level)
	return 50 * l * (l + 1)
}

// Progress is a player's position on the level curve.
type Progress struct {
	Level int
	Exp   int64
}

// LevelChange describes the levels crossed by an EXP grant.
type LevelChange struct {
	OldLevel  int
	NewLevel  int
	GoldBonus int64
	// Applied is the EXP that counted; anything past the cap is dropped.
	Applied int64
}

// LevelsGained returns how many levels were crossed.
func (c LevelChange) LevelsGained() int {
	return c.NewLevel - c.OldLevel
}

// Leveled reports whether at least one level was gained.
func (c LevelChange) Leveled() bool {
	return c.NewLevel > c.OldLevel
}

// AddExp applies gained EXP, rolling over as many levels as it covers.
func AddExp(p Progress, gained int64) (Progress, LevelChange) {
	if p.Level < 1 {
		p.Level = 1
	}
	change := LevelChange{OldLevel: p.Level, NewLevel: p.Level}
	if gained < 0 {
		gained = 0
	}

	if p.Level >= MaxLevel {
		p.Level = MaxLevel
		p.Exp = 0
		change.NewLevel = MaxLevel
		return p, change
	}

	toCap := max(TotalExpForLevel(MaxLevel)-TotalExpForLevel(p.Level)-p.Exp, 0)
	change.Applied = min(gained, toCap)

	p.Exp += gained
	for p.Level < MaxLevel {
		need := ExpToNext(p.Level)
		if p.Exp < need {
			break
		}
		p.Exp -= need
		p.Level++
		change.GoldBonus += int64(LevelUpGoldPerLevel * p.Level)
	}
	if p.Level >= MaxLevel {
		p.Exp = 0
	}

	change.NewLevel = p.Level
	return p, change
}

// TotalExpForLevel returns the cumulative EXP needed to reach level from level 1.
func TotalExpForLevel(level int) int64 {
	var total int64
	for l := 1; l < level && l < MaxLevel; l++ {
		total += ExpToNext(l)
	}
	return total
}
