// File: internal/parser/instruction.go
package parser

// uiInstruction nudges the model toward the exact text shapes the
// extractor knows how to detect.
const uiInstruction = `

IMPORTANT - Data Visualization Format:
When your response includes numerical data, comparisons, or statistics, format them as follows:

FOR CHARTS (comparisons, trends, distributions):
Present data like this:
2020: 100
2021: 150
2022: 200
(Each line: Label: Number)

FOR METRICS/STATISTICS:
Present like this:
Total Users: 1000
Average Score: 85
Success Rate: 95%
(Capitalize first letter of each metric name)

FOR TABLES:
Use markdown tables for structured data.

These formats will be automatically visualized as interactive charts and metric cards.
`

// AddUIInstruction appends the structured-output guidance to a prompt.
func AddUIInstruction(prompt string) string {
	return prompt + uiInstruction
}
