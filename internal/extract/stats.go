package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/cardscan/internal/textnorm"
)

// StatKey identifies one ability score on the stats screen.
type StatKey string

// Ability score keys, in the order the stats screen lists them.
const (
	OffensiveAwareness  StatKey = "offensive_awareness"
	BallControl         StatKey = "ball_control"
	Dribbling           StatKey = "dribbling"
	TightPossession     StatKey = "tight_possession"
	LowPass             StatKey = "low_pass"
	LoftPass            StatKey = "loft_pass"
	Finishing           StatKey = "finishing"
	Heading             StatKey = "heading"
	PlaceKicking        StatKey = "place_kicking"
	Curl                StatKey = "curl"
	DefensiveAwareness  StatKey = "defensive_awareness"
	Tackling            StatKey = "tackling"
	Aggression          StatKey = "aggression"
	DefensiveEngagement StatKey = "defensive_engagement"
	Speed               StatKey = "speed"
	Acceleration        StatKey = "acceleration"
	KickingPower        StatKey = "kicking_power"
	Jump                StatKey = "jump"
	PhysicalContact     StatKey = "physical_contact"
	Balance             StatKey = "balance"
	Stamina             StatKey = "stamina"
	GKAwareness         StatKey = "gk_awareness"
	GKCatching          StatKey = "gk_catching"
	GKClearing          StatKey = "gk_clearing"
	GKReflexes          StatKey = "gk_reflexes"
	GKReach             StatKey = "gk_reach"
)

// AllStatKeys lists every known StatKey.
var AllStatKeys = []StatKey{
	OffensiveAwareness, BallControl, Dribbling, TightPossession, LowPass, LoftPass,
	Finishing, Heading, PlaceKicking, Curl,
	DefensiveAwareness, Tackling, Aggression, DefensiveEngagement,
	Speed, Acceleration, KickingPower, Jump, PhysicalContact, Balance, Stamina,
	GKAwareness, GKCatching, GKClearing, GKReflexes, GKReach,
}

// IsKnown reports whether k is one of AllStatKeys.
func (k StatKey) IsKnown() bool {
	for _, known := range AllStatKeys {
		if k == known {
			return true
		}
	}
	return false
}

const (
	// MinStat and MaxStat bound every committed ability score.
	MinStat = 40
	MaxStat = 103
)

// StatMap holds extracted ability scores. A missing key means the label was
// not recognized in any image.
type StatMap map[StatKey]int

// StatDef pairs a StatKey with the label spellings that identify it.
type StatDef struct {
	Key     StatKey
	Aliases []string
}

type statEntry struct {
	key     StatKey
	aliases []string // normalized
}

// StatTable matches recognized stat-screen lines against an alias table.
// Values outside [MinStat, MaxStat] are never committed.
type StatTable struct {
	entries []statEntry
}

var (
	boosterPattern = regexp.MustCompile(`\+\d`)
	valuePattern   = regexp.MustCompile(`\d{2,3}`)
)

// NewStatTable builds a table from defs, normalizing every alias once.
// Table order decides which key wins when a line matches more than one.
func NewStatTable(defs []StatDef) (*StatTable, error) {
	seen := make(map[StatKey]bool, len(defs))
	entries := make([]statEntry, 0, len(defs))
	for _, def := range defs {
		if def.Key == "" {
			return nil, fmt.Errorf("stat definition with empty key")
		}
		if seen[def.Key] {
			return nil, fmt.Errorf("duplicate stat key %q", def.Key)
		}
		seen[def.Key] = true

		aliases := textnorm.NormalizeAll(def.Aliases)
		if len(aliases) == 0 {
			return nil, fmt.Errorf("stat %q has no usable aliases", def.Key)
		}
		entries = append(entries, statEntry{key: def.Key, aliases: aliases})
	}

	return &StatTable{entries: entries}, nil
}

// Keys returns the table's keys in match order.
func (t *StatTable) Keys() []StatKey {
	keys := make([]StatKey, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.key
	}
	return keys
}

// MergeLines matches each line against the keys not yet present in acc and
// commits at most one value per line. Values already in acc are never
// replaced. It returns the number of values committed.
func (t *StatTable) MergeLines(acc StatMap, lines []string) int {
	added := 0
	for _, line := range lines {
		if key, value, ok := t.matchLine(acc, line); ok {
			acc[key] = value
			added++
		}
	}
	return added
}

// matchLine finds the first unpopulated key whose alias occurs in line and
// whose first 2-3 digit number lies in range. Booster annotations ("+2") are
// removed before the number is read so "決定カ+289" yields 89.
func (t *StatTable) matchLine(acc StatMap, line string) (StatKey, int, bool) {
	norm := boosterPattern.ReplaceAllString(textnorm.Normalize(line), "")
	if norm == "" {
		return "", 0, false
	}

	for _, e := range t.entries {
		if _, done := acc[e.key]; done {
			continue
		}
		if !containsAny(norm, e.aliases) {
			continue
		}
		digits := valuePattern.FindString(norm)
		if digits == "" {
			continue
		}
		value, err := strconv.Atoi(digits)
		if err != nil || value < MinStat || value > MaxStat {
			continue
		}
		return e.key, value, true
	}
	return "", 0, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
