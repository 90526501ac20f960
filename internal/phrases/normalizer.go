// Package phrases rewrites a handful of known regional-language phrasings
// into canonical English before intent extraction. It is not a translator.
package phrases

import "strings"

const (
	doctorPrefix    = "is dr."
	availableSuffix = "available"
)

var translations = map[string]string{
	"kete bed available achhi":       "how many beds are available",
	"paracetamol achi ki":            "is paracetamol available",
	"ramesh kie":                     "who is ramesh",
	"discharge karideba ramesh ku":   "discharge ramesh",
	"doctor sahu available nuhanti":  "doctor sahu not available",
	"general ward re kete bed achhi": "how many beds are available in general ward",
	"is dr. c. mishra":               "is Dr. C. Mishra available?",
}

// Normalize returns the canonical form of text when it matches a known
// phrase, otherwise text itself. "is dr. X" queries that do not already end
// in "available" get " available?" appended before the lookup.
func Normalize(text string) string {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, doctorPrefix) && !strings.HasSuffix(lower, availableSuffix) {
		text += " " + availableSuffix + "?"
	}
	if canonical, ok := translations[lookupKey(text)]; ok {
		return canonical
	}
	return text
}

// lookupKey lowercases and trims text, dropping trailing question and
// exclamation marks so "ramesh kie?" finds "ramesh kie".
func lookupKey(text string) string {
	key := strings.TrimSpace(strings.ToLower(text))
	return strings.TrimSpace(strings.TrimRight(key, "?!"))
}
