package bankroll

import (
	"regexp"
	"slices"
	"strings"
)

var (
	matchup  = regexp.MustCompile(`(?i)^(.+?)\s+(?:vs\.?|x)\s+(.+)$`)
	handicap = regexp.MustCompile(`\s*[-+]\d+(?:[.,]\d+)?$`)
)

// ParseTeams extracts the team names of a wager description like
// "T1 vs Gen.G | Mapa 1" or "Flamengo x Palmeiras -1.5".
// A description without matchup is a single team.
func ParseTeams(details string) []string {
	details, _, _ = strings.Cut(details, "|")
	details = strings.TrimSpace(details)
	if details == "" {
		return nil
	}
	var names []string
	if m := matchup.FindStringSubmatch(details); m != nil {
		names = []string{m[1], m[2]}
	} else {
		names = []string{details}
	}
	teams := names[:0]
	for _, n := range names {
		n = strings.TrimSpace(handicap.ReplaceAllString(strings.TrimSpace(n), ""))
		if n != "" {
			teams = append(teams, n)
		}
	}
	return teams
}

// ExistingTeams returns, per market, the sorted distinct team names found in
// wager descriptions, blacklisted names excluded.
func ExistingTeams(l *Ledger) map[string][]string {
	teams := make(map[string][]string)
	for _, w := range l.wagers {
		for _, name := range ParseTeams(w.Details) {
			if slices.Contains(l.blacklist, name) || slices.Contains(teams[w.Market], name) {
				continue
			}
			teams[w.Market] = append(teams[w.Market], name)
		}
	}
	for _, names := range teams {
		slices.Sort(names)
	}
	return teams
}
