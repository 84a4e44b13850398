package criteria

import "fmt"

// DefaultTemplate is the reference example shown to the model.
const DefaultTemplate = `
Template: (example contains ETS component statements)
Pre-condition:
1. Check variable "T5Counter" if ECU is alive or not in Trace32.
2. Connect ECU as TimeSlave over Chassis CAN Channel A.
3. Rest Bus Simulation with GlobalTime Master Implementation according to OD DBC.

Acceptance Criteria:
    Input: Send the SYNC & FUP messages with TimeDomain 0 from RBS Master on the CAN ID 0x01E as specified in OD Database.
    Output: Check the TimeBaseStatus from the variable g_timeConversionInstance.m_globalTimeStatus_u8 in Trace32.
    Expected TimeSync Status shall be 0x08/GLOBAL_TIME_BASE bit is set.
`

// Literal fills the model is told to use when a section cannot be extracted.
const (
	PreConditionFallback = "To be written by developers."
	ExpectedFallback     = "To be defined by developers."
)

// BuildPrompt embeds the reference template and content into the instruction prompt.
func BuildPrompt(template, content string) string {
	return fmt.Sprintf(`You are an AI expert in text pattern matching and validation.
Your task is to compare a given content with a reference template and determine if the content follows the same structure i.e. the structure should follow the template as follows
Pre-condition: <Extracted pre-condition statement or '%[3]s' if unable to extract>
Acceptance Criteria:
    Input: <Extracted input statement>
    Output: <Extracted output statement>
    Expected: <Extracted expected statement>

### Extraction Rules:
- If 'Pre-condition' exists in the given content, use it as is.
- If 'Pre-condition' is missing, try to infer it from 'Acceptance Criteria'. If inference is not possible, set it as **"%[3]s"**
- Extract 'Acceptance Criteria', 'Input', and 'Output' as they appear in the given content.
- **Do not modify** or omit the 'Acceptance Criteria' if present in the given content.
- If 'Expected' is missing in the given content, **do not remove the other extracted elements.** Instead, return 'Expected: %[4]s'

### Reference Template:
%[1]s
Above reference template is just an example format, do not use the content from reference template to create 'pre-condition'

### Given Content:
%[2]s

### Task:
Mention which category in the template is not followed
1. Write a suggested modifications as per the template and Provide a structured response.
2. Give the similarity percentage between template and content that aligns with any of the condition below.
    2.1. Suppose, the content has both Pre-condition and Acceptance criteria (input/output) then similarity_percent is 100%%
    2.2. Suppose, the content has Acceptance Criteria (along with input/output) but not pre-condition, then similarity_percent is 80%%
    2.3. Suppose the content has only Acceptance Criteria (there is no input/output) but not pre-condition, then similarity_percent is 50%%
    2.4. Suppose the content has does not have Acceptance Criteria and pre-condition or completely different from template, then similarity_percent is less than 50%%

### Response Format:
Pre-condition:
<Extracted or inferred Pre-condition statement>

Acceptance Criteria:
    Input: <Extracted Input statement>
    Output: <Extracted Output statement>
    Expected: <Extracted Expected statement>
`, template, content, PreConditionFallback, ExpectedFallback)
}
