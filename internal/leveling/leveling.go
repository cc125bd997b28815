// Package leveling maps accumulated XP to levels, tiers and progress.
// Everything here is a pure function of the XP value and a fixed table.
package leveling

import "math"

// MaxLevel is the highest reachable level.
const MaxLevel = 100

// Tier is a named band of levels used for display grouping.
type Tier struct {
	FromLevel int
	ToLevel   int
	Name      string
	Emoji     string
}

var tiers = []Tier{
	{1, 10, "Novice", "🌱"},
	{11, 20, "Apprentice", "📘"},
	{21, 30, "Student", "✏️"},
	{31, 40, "Achiever", "🎯"},
	{41, 50, "Scholar", "📚"},
	{51, 60, "Specialist", "⚡"},
	{61, 70, "Expert", "🔥"},
	{71, 80, "Master", "🏅"},
	{81, 90, "Grandmaster", "💎"},
	{91, 99, "Sage", "🌟"},
	{100, 100, "Legend", "👑"},
}

// beyondTier is never reachable via the curve, handled defensively.
var beyondTier = Tier{101, math.MaxInt32, "Beyond", "🚀"}

// Threshold returns the cumulative XP required to be at the given level.
// Threshold(1) = 100, Threshold(100) = 505000.
func Threshold(level int) int64 {
	return int64(100 * level * (level + 1) / 2)
}

// LevelForXP returns the largest level in [1, MaxLevel] whose threshold the
// XP value has reached. XP below Threshold(1) is level 1 by convention.
func LevelForXP(xp int64) int {
	level := 1
	for l := 1; l <= MaxLevel; l++ {
		if xp < Threshold(l) {
			break
		}
		level = l
	}
	return level
}

// TierFor returns the tier containing the given level.
func TierFor(level int) Tier {
	for _, t := range tiers {
		if level >= t.FromLevel && level <= t.ToLevel {
			return t
		}
	}
	return beyondTier
}

// Info is the derived level state for an XP total. Never stored.
type Info struct {
	Level         int
	Tier          Tier
	AtMax         bool    // true at MaxLevel; progress fields are zero
	NextThreshold int64   // cumulative XP at which the next level starts
	XPInLevel     int64   // XP accumulated within the current band
	XPNeeded      int64   // band width in XP
	Progress      float64 // percent toward the next level, one decimal
}

// ForXP computes the full level representation for an XP total.
func ForXP(xp int64) Info {
	level := LevelForXP(xp)

	info := Info{
		Level: level,
		Tier:  TierFor(level),
	}

	if level >= MaxLevel {
		info.AtMax = true
		return info
	}

	// Below the first threshold the user is still climbing toward level 1's
	// own threshold, so the band starts at zero.
	lower := int64(0)
	next := Threshold(1)
	if xp >= Threshold(level) {
		lower = Threshold(level)
		next = Threshold(level + 1)
	}

	info.NextThreshold = next
	info.XPInLevel = xp - lower
	info.XPNeeded = next - lower
	info.Progress = math.Round(float64(info.XPInLevel)/float64(info.XPNeeded)*1000) / 10

	return info
}

// NextTier returns the tier that follows the given level's tier,
// and false when the level is already in the top tier.
func NextTier(level int) (Tier, bool) {
	current := TierFor(level)
	for i, t := range tiers {
		if t == current && i+1 < len(tiers) {
			return tiers[i+1], true
		}
	}
	return Tier{}, false
}
