// Package markets maps raw upstream market labels onto the canonical prop-type
// taxonomy used across the persisted tables.
package markets

import "strings"

// marketMap groups aliases per sport family. Keys are matched exactly first,
// then against the lower-cased label, then token by token.
var marketMap = map[string]string{
	// Football: passing
	"Passing Yards":      "Passing Yards",
	"Pass Yards":         "Passing Yards",
	"passing yards":      "Passing Yards",
	"pass yards":         "Passing Yards",
	"passing yds":        "Passing Yards",
	"pass yds":           "Passing Yards",
	"Pass Attempts":      "Pass Attempts",
	"Passing Attempts":   "Pass Attempts",
	"pass attempts":      "Pass Attempts",
	"passing attempts":   "Pass Attempts",
	"Completions":        "Completions",
	"Pass Completions":   "Completions",
	"completions":        "Completions",
	"pass completions":   "Completions",
	"Pass TDs":           "Passing Touchdowns",
	"Passing TDs":        "Passing Touchdowns",
	"passing touchdowns": "Passing Touchdowns",
	"pass tds":           "Passing Touchdowns",
	"Interceptions":      "Interceptions",
	"interceptions":      "Interceptions",
	"pass interceptions": "Interceptions",
	"pass int":           "Interceptions",

	// Football: rushing
	"Rushing Yards":      "Rushing Yards",
	"Rush Yards":         "Rushing Yards",
	"rushing yards":      "Rushing Yards",
	"rush yards":         "Rushing Yards",
	"rushing yds":        "Rushing Yards",
	"Carries":            "Carries",
	"Rush Attempts":      "Carries",
	"Rushing Attempts":   "Carries",
	"carries":            "Carries",
	"rush attempts":      "Carries",
	"rushing attempts":   "Carries",
	"Rush TDs":           "Rushing Touchdowns",
	"Rushing TDs":        "Rushing Touchdowns",
	"rushing touchdowns": "Rushing Touchdowns",
	"Longest Rush":       "Longest Rush",
	"longest rush":       "Longest Rush",

	// Football: receiving
	"Receiving Yards":      "Receiving Yards",
	"Rec Yards":            "Receiving Yards",
	"receiving yards":      "Receiving Yards",
	"rec yards":            "Receiving Yards",
	"receiving yds":        "Receiving Yards",
	"Receptions":           "Receptions",
	"receptions":           "Receptions",
	"Rec TDs":              "Receiving Touchdowns",
	"Receiving TDs":        "Receiving Touchdowns",
	"receiving touchdowns": "Receiving Touchdowns",
	"Longest Reception":    "Longest Reception",
	"longest reception":    "Longest Reception",

	// Football: scoring props
	"First Touchdown":            "First Touchdown",
	"first touchdown":            "First Touchdown",
	"to record first touchdown":  "First Touchdown",
	"Anytime Touchdown":          "Anytime Touchdown",
	"anytime touchdown":          "Anytime Touchdown",
	"to record anytime touchdown": "Anytime Touchdown",
	"to score":                   "Anytime Touchdown",

	// Basketball
	"Points":      "Points",
	"points":      "Points",
	"Assists":     "Assists",
	"assists":     "Assists",
	"Rebounds":    "Rebounds",
	"rebounds":    "Rebounds",
	"3PT Made":    "3PT Made",
	"3pt made":    "3PT Made",
	"threes made": "3PT Made",
	"Steals":      "Steals",
	"steals":      "Steals",
	"Blocks":      "Blocks",
	"blocks":      "Blocks",

	// Baseball: batting
	"Hits":               "Hits",
	"hits":               "Hits",
	"Runs":               "Runs",
	"runs":               "Runs",
	"RBIs":               "RBIs",
	"rbis":               "RBIs",
	"Total Bases":        "Total Bases",
	"total bases":        "Total Bases",
	"Singles":            "Singles",
	"singles":            "Singles",
	"Doubles":            "Doubles",
	"doubles":            "Doubles",
	"Triples":            "Triples",
	"triples":            "Triples",
	"Home Runs":          "Home Runs",
	"home runs":          "Home Runs",
	"Stolen Bases":       "Stolen Bases",
	"stolen bases":       "Stolen Bases",
	"Hits + Runs + RBIs": "Hits + Runs + RBIs",
	"hits + runs + rbis": "Hits + Runs + RBIs",

	// Baseball: pitching
	"Strikeouts":    "Strikeouts",
	"strikeouts":    "Strikeouts",
	"Walks":         "Walks",
	"walks":         "Walks",
	"Pitching Outs": "Pitching Outs",
	"pitching outs": "Pitching Outs",
	"Earned Runs":   "Earned Runs",
	"earned runs":   "Earned Runs",

	// Hockey
	"Goals":         "Goals",
	"goals":         "Goals",
	"Shots on Goal": "Shots on Goal",
	"shots on goal": "Shots on Goal",
	"Saves":         "Saves",
	"saves":         "Saves",

	// Cross-sport
	"Fantasy Score": "Fantasy Score",
	"fantasy score": "Fantasy Score",
}

// overUnderVariants maps the "<market> over/under" and "<market> yes/no"
// labels some books emit for the same canonical markets.
var overUnderVariants = map[string]string{
	"passing yards over/under":           "Passing Yards",
	"rushing yards over/under":           "Rushing Yards",
	"receiving yards over/under":         "Receiving Yards",
	"receptions over/under":              "Receptions",
	"passing touchdowns over/under":      "Passing Touchdowns",
	"rushing touchdowns over/under":      "Rushing Touchdowns",
	"receiving touchdowns over/under":    "Receiving Touchdowns",
	"interceptions over/under":           "Interceptions",
	"points over/under":                  "Points",
	"assists over/under":                 "Assists",
	"rebounds over/under":                "Rebounds",
	"threes made over/under":             "3PT Made",
	"steals over/under":                  "Steals",
	"blocks over/under":                  "Blocks",
	"hits over/under":                    "Hits",
	"runs over/under":                    "Runs",
	"rbis over/under":                    "RBIs",
	"total bases over/under":             "Total Bases",
	"strikeouts over/under":              "Strikeouts",
	"walks over/under":                   "Walks",
	"home runs over/under":               "Home Runs",
	"fantasy score over/under":           "Fantasy Score",
	"shots on goal over/under":           "Shots on Goal",
	"goals over/under":                   "Goals",
	"saves over/under":                   "Saves",
	"to record first touchdown yes/no":   "First Touchdown",
	"any touchdowns yes/no":              "Anytime Touchdown",
	"anytime touchdown yes/no":           "Anytime Touchdown",
}

// Normalize maps a raw market label to its canonical prop type. Lookup order:
// exact hit, exact hit on the lower-cased label, then a token scan of the
// lower-cased words. Unmapped labels are title-cased and returned with
// mapped=false so new upstream markets surface in stats instead of vanishing.
func Normalize(rawLabel string) (propType string, mapped bool) {
	if propType, ok := marketMap[rawLabel]; ok {
		return propType, true
	}

	lower := strings.ToLower(rawLabel)
	if propType, ok := marketMap[lower]; ok {
		return propType, true
	}
	if propType, ok := overUnderVariants[lower]; ok {
		return propType, true
	}

	for _, word := range strings.Fields(lower) {
		if propType, ok := marketMap[word]; ok {
			return propType, true
		}
	}

	return titleCase(rawLabel), false
}

// titleCase upper-cases the first letter of each underscore- or
// space-separated word.
func titleCase(label string) string {
	label = strings.ReplaceAll(label, "_", " ")
	words := strings.Fields(label)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
