// Package interpret turns single free-text utterances into typed partial
// signals: yes/no polarity, genre sets, language sets, and runtime
// constraints. All functions are stateless and pure; ambiguous input yields
// a zero result, never an error.
package interpret

import (
	"regexp"
	"strconv"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Acceptance thresholds on the 0-100 fuzzy ratio scale. These bound
// false-positive classification of off-vocabulary input: a candidate below
// the threshold is "no signal", and a yes/no verdict must also strictly
// beat the opposing polarity's best score.
const (
	yesNoThreshold    = 80
	genreThreshold    = 80
	languageThreshold = 75
)

// YesNo is a detected answer polarity.
type YesNo string

const (
	// Ambiguous means neither polarity cleared the acceptance rules.
	Ambiguous YesNo = ""
	Yes       YesNo = "yes"
	No        YesNo = "no"
)

// DetectYesNo classifies an utterance as an affirmative or negative answer.
// Exact vocabulary hits win immediately; otherwise the best fuzzy score per
// polarity must reach the threshold and strictly beat the other polarity.
func DetectYesNo(text string) YesNo {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return Ambiguous
	}

	for _, w := range yesWords {
		if t == w {
			return Yes
		}
	}
	for _, w := range noWords {
		if t == w {
			return No
		}
	}

	bestYes := bestRatio(t, yesWords)
	bestNo := bestRatio(t, noWords)

	if bestYes >= yesNoThreshold && bestYes > bestNo {
		return Yes
	}
	if bestNo >= yesNoThreshold && bestNo > bestYes {
		return No
	}
	return Ambiguous
}

func bestRatio(text string, vocab []string) int {
	best := 0
	for _, w := range vocab {
		if score := fuzzy.Ratio(w, text); score > best {
			best = score
		}
	}
	return best
}

var tokenSplit = regexp.MustCompile(`[,\s-]+`)

// tokenize lowercases, strips stopwords and punctuation, and splits on
// comma/whitespace/hyphen runs into candidate tokens.
func tokenize(text string) []string {
	var out []string
	for _, tok := range tokenSplit.Split(strings.ToLower(text), -1) {
		tok = strings.Trim(tok, `.!?;:'"()`)
		if tok == "" || stopwords[tok] {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// matchVocabulary fuzzy-matches each token against a closed vocabulary,
// keeping the single best vocabulary entry per token when its score exceeds
// the threshold. The result is deduplicated and ordered by first hit.
func matchVocabulary(text string, vocab []string, threshold int) []string {
	var matched []string
	seen := make(map[string]bool)
	for _, tok := range tokenize(text) {
		best, bestScore := "", 0
		for _, v := range vocab {
			if score := fuzzy.Ratio(tok, v); score > bestScore {
				best, bestScore = v, score
			}
		}
		if bestScore > threshold && !seen[best] {
			seen[best] = true
			matched = append(matched, best)
		}
	}
	return matched
}

// ExtractGenres returns the deduplicated set of vocabulary genres named in
// the text, or nil if none clear the threshold.
func ExtractGenres(text string) []string {
	return matchVocabulary(text, Genres, genreThreshold)
}

// ExtractLanguages returns the languages named in the text. A negative
// yes/no verdict short-circuits to nil: "no preference" beats parsing
// garbage as a language name.
func ExtractLanguages(text string) []string {
	if DetectYesNo(text) == No {
		return nil
	}
	return matchVocabulary(text, Languages, languageThreshold)
}

// ConstraintKind tags a runtime constraint.
type ConstraintKind string

const (
	ConstraintMax   ConstraintKind = "max"
	ConstraintMin   ConstraintKind = "min"
	ConstraintExact ConstraintKind = "exact"
)

// RuntimeConstraint is a typed bound on movie runtime in minutes.
type RuntimeConstraint struct {
	Kind    ConstraintKind `json:"kind"`
	Minutes int            `json:"minutes"`
}

var (
	maxWords = regexp.MustCompile(`(under|below|less\s+than|at\s+most|within|no\s+more\s+than)`)
	// \b keeps the bare "min" keyword from firing inside "mins"/"minutes".
	minWords = regexp.MustCompile(`(over|greater\s+than|more\s+than|at\s+least|minimum|\bmin\b)`)

	// "1h 30m", "1 hr 20 min", "2h", "45m" - either part optional.
	hoursMinutes = regexp.MustCompile(
		`(?:(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours))?\s*` +
			`(?:(\d+(?:\.\d+)?)\s*(m|min|mins|minute|minutes))?`)

	// "< 30 mins", "less than 90 minutes" - one quantity plus a unit.
	quantityUnit = regexp.MustCompile(
		`(<=|>=|<|>|under|greater\s+than|below|less\s+than|over|more\s+than|at\s+least|at\s+most)?\s*` +
			`(\d+(?:\.\d+)?)\s*(h|hr|hrs|hour|hours|m|min|mins|minute|minutes)\b`)
)

// ExtractRuntime parses a runtime constraint from the text. A negative
// yes/no verdict means "no constraint". Text with no recognizable duration
// yields nil rather than silently defaulting to a constraint.
func ExtractRuntime(text string) *RuntimeConstraint {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return nil
	}
	if DetectYesNo(t) == No {
		return nil
	}

	kind := classifyConstraint(t)

	minutes, ok := parseHoursMinutes(t)
	if !ok {
		minutes, ok = parseQuantityUnit(t)
	}
	if !ok {
		return nil
	}

	return &RuntimeConstraint{Kind: kind, Minutes: minutes}
}

// classifyConstraint scans for comparison symbols first, then comparison
// words; anything else is an exact constraint.
func classifyConstraint(t string) ConstraintKind {
	switch {
	case strings.Contains(t, "<"):
		return ConstraintMax
	case strings.Contains(t, ">"):
		return ConstraintMin
	case maxWords.MatchString(t):
		return ConstraintMax
	case minWords.MatchString(t):
		return ConstraintMin
	default:
		return ConstraintExact
	}
}

func parseHoursMinutes(t string) (int, bool) {
	m := hoursMinutes.FindStringSubmatch(t)
	if m == nil || (m[1] == "" && m[3] == "") {
		return 0, false
	}
	var hours, mins float64
	if m[1] != "" {
		hours, _ = strconv.ParseFloat(m[1], 64)
	}
	if m[3] != "" {
		mins, _ = strconv.ParseFloat(m[3], 64)
	}
	return int(hours*60 + mins + 0.5), true
}

func parseQuantityUnit(t string) (int, bool) {
	m := quantityUnit.FindStringSubmatch(t)
	if m == nil {
		return 0, false
	}
	val, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(m[3], "h") {
		return int(val*60 + 0.5), true
	}
	return int(val + 0.5), true
}
