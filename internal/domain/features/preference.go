// Package features derives the per-band feature vectors the scheduler scores on.
package features

import "strings"

// Preference is a band's coarse slot request.
type Preference string

// Slot preferences parsed from free text.
const (
	PreferenceAny   Preference = "any"
	PreferenceEarly Preference = "early"
	PreferenceLate  Preference = "late"
)

// PreferenceParser maps a band note to a Preference.
type PreferenceParser func(note string) Preference

// Keywords lists the literal tokens that lean a note one way or the other.
type Keywords struct {
	Early []string
	Late  []string
}

// JapaneseKeywords is the default table.
var JapaneseKeywords = Keywords{
	Early: []string{"前半", "前の方", "早め", "最初"},
	Late:  []string{"後半", "後ろの方", "遅め", "最後"},
}

// EnglishKeywords matches lower-case English phrasing.
var EnglishKeywords = Keywords{
	Early: []string{"first half", "early", "beginning", "open the show"},
	Late:  []string{"second half", "late", "end of the show", "close the show"},
}

// Merge concatenates keyword tables.
func Merge(tables ...Keywords) Keywords {
	var out Keywords
	for _, t := range tables {
		out.Early = append(out.Early, t.Early...)
		out.Late = append(out.Late, t.Late...)
	}
	return out
}

// KeywordsForLocale resolves a locale name (ja, en, all) to a keyword table.
// Unknown names fall back to Japanese.
func KeywordsForLocale(locale string) Keywords {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "en":
		return EnglishKeywords
	case "all":
		return Merge(JapaneseKeywords, EnglishKeywords)
	default:
		return JapaneseKeywords
	}
}

// NewKeywordParser builds a substring-matching PreferenceParser.
// A note leaning both ways, or neither, yields PreferenceAny.
func NewKeywordParser(kw Keywords) PreferenceParser {
	return func(note string) Preference {
		note = strings.TrimSpace(note)
		if note == "" {
			return PreferenceAny
		}
		early := containsAny(note, kw.Early)
		late := containsAny(note, kw.Late)
		switch {
		case early && !late:
			return PreferenceEarly
		case late && !early:
			return PreferenceLate
		default:
			return PreferenceAny
		}
	}
}

// ParsePreference uses the default Japanese table.
var ParsePreference = NewKeywordParser(JapaneseKeywords)

func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if t != "" && strings.Contains(s, t) {
			return true
		}
	}
	return false
}
