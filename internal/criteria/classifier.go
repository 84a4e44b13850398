package criteria

import (
	"regexp"

	"github.com/Kavirubc/tplcheck/pkg/models"
)

// Markers a compliant text must contain. Input/Output must stand alone as words.
var (
	preConditionMarker = regexp.MustCompile(`(?i)pre[\s-]?conditions?`)
	acceptanceMarker   = regexp.MustCompile(`(?i)acceptance\s*criteria`)
	inputMarker        = regexp.MustCompile(`(?i)\binput\b`)
	outputMarker       = regexp.MustCompile(`(?i)\boutput\b`)
)

// Classify reports "yes" when text carries all four template markers, "no" otherwise.
func Classify(text string) string {
	if preConditionMarker.MatchString(text) &&
		acceptanceMarker.MatchString(text) &&
		inputMarker.MatchString(text) &&
		outputMarker.MatchString(text) {
		return models.Compliant
	}
	return models.NonCompliant
}
