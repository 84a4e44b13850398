package models

// Tier is how closely a reply's content matches the template shape.
type Tier int

const (
	// TierNoMatch covers anything below 50% and replies without a usable percentage.
	TierNoMatch Tier = iota
	// TierAcceptanceOnly is acceptance criteria without input/output (50%).
	TierAcceptanceOnly
	// TierAcceptanceWithIO is acceptance criteria with input/output but no pre-condition (80%).
	TierAcceptanceWithIO
	// TierFullMatch has both pre-condition and acceptance criteria (100%).
	TierFullMatch
)

func (t Tier) String() string {
	switch t {
	case TierFullMatch:
		return "full-match"
	case TierAcceptanceWithIO:
		return "acceptance-with-io"
	case TierAcceptanceOnly:
		return "acceptance-only"
	default:
		return "no-match"
	}
}

// Description is the human-readable similarity_percent cell value.
func (t Tier) Description() string {
	switch t {
	case TierFullMatch:
		return "100% - the content has both Pre-condition and Acceptance criteria (input/output)"
	case TierAcceptanceWithIO:
		return "80% - the content has Acceptance Criteria (along with input/output) but not pre-condition"
	case TierAcceptanceOnly:
		return "50% - the content has only Acceptance Criteria (there is no input/output) but not pre-condition"
	default:
		return "the content has does not have Acceptance Criteria and pre-condition or completely different from template"
	}
}

// TierFromPercent maps a percentage token by exact string match.
// Values other than "50%", "80%" and "100%" fall into TierNoMatch, including "95%".
func TierFromPercent(token string) Tier {
	switch token {
	case "100%":
		return TierFullMatch
	case "80%":
		return TierAcceptanceWithIO
	case "50%":
		return TierAcceptanceOnly
	default:
		return TierNoMatch
	}
}

// Section is an extracted piece of a reply; Found is false when the markers were missing.
type Section struct {
	Text  string
	Found bool
}

// None is how a missing section is rendered.
const None = "None"

func (s Section) String() string {
	if !s.Found {
		return None
	}
	return s.Text
}

// Verdict is the structured reading of one model reply.
type Verdict struct {
	PreCondition       Section
	AcceptanceCriteria Section
	Percent            string
	Tier               Tier
}

// ProposedSolution formats the extracted sections for the proposed_solution column.
func (v Verdict) ProposedSolution() string {
	return "Pre-condition:" + v.PreCondition.String() + "\nAcceptance Criteria: " + v.AcceptanceCriteria.String()
}
