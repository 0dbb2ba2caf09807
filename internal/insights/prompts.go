// Package insights turns EDA summaries and user questions into AI prompts
// and runs them against the configured provider.
package insights

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/csv-analyst/backend/internal/models"
)

// edaToText condenses an EDA summary into a short readable digest for the
// prompt.
func edaToText(eda *models.EDA) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Shape: (%d, %d)", eda.Shape[0], eda.Shape[1]))
	lines = append(lines, "Columns: "+strings.Join(eda.Columns, ", "))

	if len(eda.MissingValues) > 0 {
		type mv struct {
			name  string
			count int
		}
		sorted := make([]mv, 0, len(eda.MissingValues))
		for name, count := range eda.MissingValues {
			sorted = append(sorted, mv{name, count})
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].count != sorted[j].count {
				return sorted[i].count > sorted[j].count
			}
			return sorted[i].name < sorted[j].name
		})
		if len(sorted) > 10 {
			sorted = sorted[:10]
		}
		parts := make([]string, len(sorted))
		for i, m := range sorted {
			parts[i] = fmt.Sprintf("%s:%d", m.name, m.count)
		}
		lines = append(lines, "Missing values (top): "+strings.Join(parts, ", "))
	}

	if len(eda.Correlation) > 0 {
		lines = append(lines, "Correlation matrix detected (trimmed).")
	}

	return strings.Join(lines, "\n")
}

// InsightPrompt builds the prompt for the automatic post-upload summary.
func InsightPrompt(eda *models.EDA) string {
	return fmt.Sprintf(`You are an expert data analyst. When I give you an EDA summary, respond in a first-person chatbot voice. Provide the following:

- Top 5 important insights
- Any correlations or trends
- Possible anomalies
- Recommended next steps for deeper analysis

Keep the response concise, limited to 8-12 sentences, and avoid emojis or any statements about interpreting the query.

EDA SUMMARY:
%s
`, edaToText(eda))
}

// AskPrompt builds the prompt for a user question about the loaded dataset.
func AskPrompt(query string, sample *models.Sample) string {
	sampleJSON, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		sampleJSON = []byte("{}")
	}
	return fmt.Sprintf(`You are an expert data analyst. The user asked: %q

Here is a small sample of the dataset:
%s

Provide:
- A clear answer
- Insights based on available sample
- Steps to compute deeper insights
- Short code snippets if useful
Keep it concise.
`, query, sampleJSON)
}
