package repository

import (
	"fmt"
	"strings"

	"golang-upper-limit-tracker/internal/tracker/dto"
)

// BuildSurgeSummaryPrompt constructs the instruction for the surge
// explanation. Headlines are listed verbatim, newline-joined; the fallback
// instruction keeps the model from refusing on generic headlines.
func BuildSurgeSummaryPrompt(req *dto.SummarizeRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The following Korean stock %q surged +%.2f%% today, hitting the daily upper limit.\n", req.Name, req.ChangeRate)
	b.WriteString("Here are recent news headlines about it:\n")
	b.WriteString(strings.Join(req.Headlines, "\n"))
	b.WriteString("\n")

	if req.ArticleExcerpt != "" {
		b.WriteString("\nExcerpt from a related article for additional context:\n")
		b.WriteString(req.ArticleExcerpt)
		b.WriteString("\n")
	}

	b.WriteString("\nBased on these headlines, explain briefly (in 1-2 Korean sentences) why the stock price surged.\n")
	b.WriteString("If the headlines are generic, provide a plausible reason based on common market trends (like 'Sector rotation', 'Earnings surprise').\n")
	b.WriteString("Output in Korean.\n")

	return b.String()
}
