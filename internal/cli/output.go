package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/htsflow/htsflow/internal/hts"
	"github.com/htsflow/htsflow/internal/model"
)

// WriteResults renders ranked candidates for one-shot classification.
// Backend order is preserved; confidence only colors the badge.
func WriteResults(w io.Writer, results []model.ClassificationResult, analysis string) {
	for i, result := range results {
		writeResult(w, i+1, result)
	}

	if analysis != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, SubtleStyle.Render(analysis))
	}
}

func writeResult(w io.Writer, rank int, result model.ClassificationResult) {
	badge := ConfidenceStyle(result.ConfidenceScore).
		Render(fmt.Sprintf("[%d%% %s]", result.ConfidenceScore, model.TierForScore(result.ConfidenceScore)))

	fmt.Fprintf(w, "%d. %s  %s\n", rank, CodeStyle.Render(result.HTSCode), badge)
	fmt.Fprintf(w, "   %s\n", result.Description)

	details := []string{"Duty: " + result.EffectiveDuty}
	if result.SpecialDuty != "" {
		details = append(details, "Special: "+result.SpecialDuty)
	}
	if result.Unit != "" {
		details = append(details, "Unit: "+result.Unit)
	}

	chapter := result.Chapter
	if chapter == "" {
		chapter = hts.Chapter(result.HTSCode)
	}
	details = append(details, "Chapter: "+chapter)

	fmt.Fprintf(w, "   %s\n", SubtleStyle.Render(strings.Join(details, "  |  ")))
	fmt.Fprintf(w, "   %s\n", LinkStyle.Render(hts.VerificationURL(result.HTSCode)))
}

// WriteQuestion renders a clarifying question for one-shot classification.
func WriteQuestion(w io.Writer, question string) {
	fmt.Fprintln(w, InfoStyle.Render(QuestionIcon+" "+question))
	fmt.Fprintln(w, SubtleStyle.Render("Run `htsflow chat` to answer clarifying questions interactively."))
}
