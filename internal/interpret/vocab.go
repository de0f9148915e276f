package interpret

// Closed vocabularies the interpreter fuzzy-matches against. Off-vocabulary
// input is reported as "no signal", never guessed.

var yesWords = []string{
	"yes", "yeah", "yep", "sure", "okay", "ok", "yah", "absolutely",
	"definitely", "yes please", "ya", "y", "yea",
}

var noWords = []string{
	"no", "nope", "nah", "not really", "don't", "do not", "no thanks",
	"no thank you", "n", "noo",
}

// Genres is the closed genre vocabulary.
var Genres = []string{
	"action",
	"adventure",
	"animation",
	"comedy",
	"crime",
	"documentary",
	"biography",
	"drama",
	"family",
	"fantasy",
	"history",
	"horror",
	"music",
	"mystery",
	"romance",
	"sci-fi",
	"thriller",
	"war",
	"western",
}

// Languages is the closed language vocabulary.
var Languages = []string{
	"english", "hindi", "telugu", "tamil", "korean",
	"japanese", "spanish", "french", "persian", "urdu",
	"arabic", "bengali", "chinese", "german",
}

// stopwords are dropped from utterances before vocabulary matching so that
// filler ("I love action and comedy") does not produce spurious fuzzy hits.
var stopwords = map[string]bool{
	"a": true, "about": true, "after": true, "again": true, "all": true,
	"also": true, "am": true, "an": true, "and": true, "any": true,
	"are": true, "as": true, "at": true, "be": true, "because": true,
	"been": true, "before": true, "being": true, "but": true, "by": true,
	"can": true, "could": true, "did": true, "do": true, "does": true,
	"doing": true, "down": true, "during": true, "each": true, "few": true,
	"for": true, "from": true, "further": true, "had": true, "has": true,
	"have": true, "having": true, "he": true, "her": true, "here": true,
	"hers": true, "him": true, "his": true, "how": true, "i": true,
	"if": true, "in": true, "into": true, "is": true, "it": true,
	"its": true, "just": true, "like": true, "love": true, "me": true,
	"more": true, "most": true, "my": true, "of": true, "off": true,
	"on": true, "once": true, "only": true, "or": true, "other": true,
	"our": true, "out": true, "over": true, "own": true, "prefer": true,
	"same": true, "she": true, "should": true, "so": true, "some": true,
	"something": true, "such": true, "than": true, "that": true,
	"the": true, "their": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "those": true,
	"through": true, "to": true, "too": true, "under": true, "until": true,
	"up": true, "very": true, "want": true, "was": true, "watch": true,
	"we": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "who": true, "whom": true, "why": true,
	"will": true, "with": true, "would": true, "you": true, "your": true,
}

// ExitWords is the global exit vocabulary. Callers check it before the
// state machine sees the turn; any hit resets the conversation.
var ExitWords = map[string]bool{
	"exit": true,
	"quit": true,
	"q":    true,
	"bye":  true,
}
