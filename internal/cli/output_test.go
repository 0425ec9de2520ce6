package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/htsflow/htsflow/internal/model"
)

func TestWriteResults_PreservesOrder(t *testing.T) {
	results := []model.ClassificationResult{
		{HTSCode: "6109.90.1007", Description: "T-shirts of man-made fibers", EffectiveDuty: "32%", ConfidenceScore: 60},
		{HTSCode: "6109.10.0000", Description: "T-shirts of cotton", EffectiveDuty: "16.5%", ConfidenceScore: 95},
	}

	var buf bytes.Buffer
	WriteResults(&buf, results, "Knit apparel of chapter 61.")

	out := buf.String()
	first := strings.Index(out, "6109.90.1007")
	second := strings.Index(out, "6109.10.0000")
	assert.Greater(t, first, -1)
	assert.Greater(t, second, first, "lower-confidence result stays first when the backend ranked it first")
	assert.Contains(t, out, "Knit apparel of chapter 61.")
}

func TestWriteResults_VerificationLink(t *testing.T) {
	var buf bytes.Buffer
	WriteResults(&buf, []model.ClassificationResult{
		{HTSCode: "6109.10.0000", Description: "T-shirts of cotton", EffectiveDuty: "16.5%", ConfidenceScore: 95},
	}, "")

	assert.Contains(t, buf.String(), "hts.usitc.gov/search?query=6109.10.00")
}

func TestWriteQuestion(t *testing.T) {
	var buf bytes.Buffer
	WriteQuestion(&buf, "What material are they made of?")

	out := buf.String()
	assert.Contains(t, out, "What material are they made of?")
	assert.Contains(t, out, "htsflow chat")
}
