package dataset

import "regexp"

// Grey-structure keyword disjunction. Matching is case-insensitive and
// tolerant of spacing/hyphen variants.
var greyStructurePattern = regexp.MustCompile(
	`(?i)(grey\s*structure|gray\s*structure|grey-?work|greywork|` +
		`core\s*&\s*shell|core\s*and\s*shell|shell\s*only|structure\s*only|` +
		`semi[-\s]?finished|unfinished|without\s*finishing)`)

// GreyResult is a tagged classification outcome, so callers can tell
// "classified as finished" apart from "no text to classify".
type GreyResult struct {
	IsGrey bool
	// Fallback is true when neither title nor description text was
	// available and the default (not grey) applied.
	Fallback bool
}

// ClassifyGreyStructure reports whether the listing text describes an
// unfinished shell/core structure. Missing text never fails; it yields
// the fallback result.
func ClassifyGreyStructure(title, description string) GreyResult {
	if title == "" && description == "" {
		return GreyResult{IsGrey: false, Fallback: true}
	}
	text := title + "\n" + description
	return GreyResult{IsGrey: greyStructurePattern.MatchString(text)}
}
