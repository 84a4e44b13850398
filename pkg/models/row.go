package models

import "strings"

// Sheet column names.
const (
	ColID                = "ID"
	ColCriteria          = "DA_Verification_Criteria"
	ColTestPlatform      = "DA_Test_Platform"
	ColObjectType        = "DA_Object_Type"
	ColStatus            = "DA_Status_RA6"
	ColTeam              = "RA6_Team"
	ColFeatureName       = "DA_Feature_Name"
	ColTemplateStructure = "is_template_structure"
	ColProposedSolution  = "proposed_solution"
	ColSimilarityPercent = "similarity_percent"
	ColRulebookTemplate  = "rulebook_template"
)

// InputColumns are the columns every uploaded sheet must carry, in any order.
var InputColumns = []string{
	ColID,
	ColCriteria,
	ColTestPlatform,
	ColObjectType,
	ColStatus,
	ColTeam,
	ColFeatureName,
	ColTemplateStructure,
}

// OutputColumns is the fixed column order of a processed sheet.
var OutputColumns = []string{
	ColID,
	ColCriteria,
	ColTestPlatform,
	ColObjectType,
	ColStatus,
	ColTeam,
	ColFeatureName,
	ColTemplateStructure,
	ColProposedSolution,
	ColSimilarityPercent,
	ColRulebookTemplate,
}

// Values of the is_template_structure column
const (
	Compliant    = "yes"
	NonCompliant = "no"
)

// NotApplicable fills verdict columns of rows that never reached the model.
const NotApplicable = "N/A"

// RulebookTemplate is written to every processed row as a reminder of the expected shape.
const RulebookTemplate = "Follow the below template: \n Pre-condition:  \nAcceptance Criteria: \n 'Input':  \n 'Output': "

// Row is one verification-criteria record as read from the input sheet.
type Row struct {
	ID                string `json:"ID"`
	Criteria          string `json:"DA_Verification_Criteria"`
	TestPlatform      string `json:"DA_Test_Platform"`
	ObjectType        string `json:"DA_Object_Type"`
	Status            string `json:"DA_Status_RA6"`
	Team              string `json:"RA6_Team"`
	FeatureName       string `json:"DA_Feature_Name"`
	TemplateStructure string `json:"is_template_structure"`
}

// IsCompliant reports whether the row is already flagged as following the template.
func (r Row) IsCompliant() bool {
	return strings.EqualFold(strings.TrimSpace(r.TemplateStructure), Compliant)
}

// HasFlag reports whether the compliance column carries any value.
func (r Row) HasFlag() bool {
	return strings.TrimSpace(r.TemplateStructure) != ""
}

// RowFromRecord builds a Row from a column-name keyed record.
func RowFromRecord(rec map[string]string) Row {
	return Row{
		ID:                rec[ColID],
		Criteria:          rec[ColCriteria],
		TestPlatform:      rec[ColTestPlatform],
		ObjectType:        rec[ColObjectType],
		Status:            rec[ColStatus],
		Team:              rec[ColTeam],
		FeatureName:       rec[ColFeatureName],
		TemplateStructure: rec[ColTemplateStructure],
	}
}

// ProcessedRow is a Row enriched with the verdict columns.
type ProcessedRow struct {
	Row
	ProposedSolution  string `json:"proposed_solution"`
	SimilarityPercent string `json:"similarity_percent"`
	RulebookTemplate  string `json:"rulebook_template"`
}

// NewProcessedRow merges a row with its verdict.
func NewProcessedRow(row Row, v Verdict) ProcessedRow {
	return ProcessedRow{
		Row:               row,
		ProposedSolution:  v.ProposedSolution(),
		SimilarityPercent: v.Tier.Description(),
		RulebookTemplate:  RulebookTemplate,
	}
}

// SkippedRow carries a compliant row through with placeholder verdict columns.
func SkippedRow(row Row) ProcessedRow {
	return ProcessedRow{
		Row:               row,
		ProposedSolution:  NotApplicable,
		SimilarityPercent: NotApplicable,
		RulebookTemplate:  RulebookTemplate,
	}
}

// Values returns the cell values in OutputColumns order.
func (p ProcessedRow) Values() []string {
	return []string{
		p.ID,
		p.Criteria,
		p.TestPlatform,
		p.ObjectType,
		p.Status,
		p.Team,
		p.FeatureName,
		p.TemplateStructure,
		p.ProposedSolution,
		p.SimilarityPercent,
		p.RulebookTemplate,
	}
}
