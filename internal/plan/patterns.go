package plan

import (
	"sort"

	"pacemaker/internal/catalog"
)

// weeklyPatterns lists the candidate token sequences per phase. Patterns
// rotate week over week so consecutive weeks vary.
var weeklyPatterns = map[string][][]string{
	PhaseBase: {
		{"Easy", "Steady", "Easy", "Rest", "Easy", "Long", "Recovery"},
		{"Easy", "Easy", "Steady", "Rest", "Easy", "Long", "Recovery"},
	},
	PhaseBuild: {
		{"Easy", "Tempo", "Easy", "Rest", "Steady", "Long", "Recovery"},
		{"Easy", "Intervals", "Easy", "Rest", "Tempo", "Long", "Recovery"},
	},
	PhasePeak: {
		{"Easy", "Intervals", "Recovery", "Rest", "Tempo", "Long", "Easy"},
		{"Easy", "Tempo", "Recovery", "Rest", "Intervals", "Long", "Easy"},
	},
	PhaseTaper: {
		{"Easy", "Tempo", "Recovery", "Rest", "Easy", "Steady", "Recovery"},
	},
	PhaseRecovery: {
		{"Recovery", "Easy", "Rest", "Recovery", "Easy", "Rest", "Recovery"},
	},
}

// tokenTypes maps pattern tokens to workout types.
var tokenTypes = map[string]string{
	"Easy":      catalog.TypeEasy,
	"Steady":    catalog.TypeSteady,
	"Tempo":     catalog.TypeTempo,
	"Intervals": catalog.TypeInterval,
	"Long":      catalog.TypeLong,
	"Recovery":  catalog.TypeRecovery,
	"Rest":      catalog.TypeRest,
}

// tokenRank orders tokens by how important they are to keep when the
// athlete has fewer available days than the pattern has sessions.
// Lower keeps first.
var tokenRank = map[string]int{
	"Long":      0,
	"Tempo":     1,
	"Intervals": 1,
	"Steady":    2,
	"Easy":      3,
	"Recovery":  4,
}

// patternFor picks the week's token sequence, rotating through the
// phase's candidates so regeneration is reproducible.
func patternFor(phase string, week int) []string {
	patterns := weeklyPatterns[phase]
	if len(patterns) == 0 {
		patterns = weeklyPatterns[PhaseBase]
	}
	return patterns[week%len(patterns)]
}

// fitTokens drops Rest tokens and, when more sessions remain than the
// athlete has available days, keeps the highest-ranked sessions while
// preserving their weekly order.
func fitTokens(pattern []string, availableDays int) []string {
	var tokens []string
	for _, tok := range pattern {
		if tok == "Rest" {
			continue
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) <= availableDays {
		return tokens
	}

	idx := make([]int, len(tokens))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return tokenRank[tokens[idx[a]]] < tokenRank[tokens[idx[b]]]
	})
	keep := idx[:availableDays]
	sort.Ints(keep)

	out := make([]string, 0, availableDays)
	for _, i := range keep {
		out = append(out, tokens[i])
	}
	return out
}
