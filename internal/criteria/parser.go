package criteria

import (
	"regexp"
	"strings"

	"github.com/Kavirubc/tplcheck/pkg/models"
)

var (
	// Everything between the pre-condition label and the first acceptance label.
	preConditionPattern = regexp.MustCompile(`(?s)Pre-condition:\s*(.*?)Acceptance Criteria:`)
	// From Input through Output and Expected to the end of the reply.
	acceptancePattern = regexp.MustCompile(`(?is)Acceptance Criteria:\s*(?:.*?)(Input:\s*.*?\n\s*Output:\s*.*?\n\s*Expected:\s*.*)`)
	percentPattern    = regexp.MustCompile(`\d+%`)
)

// Parse reads a model reply into a Verdict. It never fails: missing sections are
// reported as not found and an unusable percentage lands in models.TierNoMatch.
func Parse(reply string) models.Verdict {
	percent := percentPattern.FindString(reply)
	return models.Verdict{
		PreCondition:       extract(preConditionPattern, reply),
		AcceptanceCriteria: extract(acceptancePattern, reply),
		Percent:            percent,
		Tier:               models.TierFromPercent(percent),
	}
}

func extract(re *regexp.Regexp, text string) models.Section {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return models.Section{}
	}
	return models.Section{Text: strings.TrimSpace(m[1]), Found: true}
}
