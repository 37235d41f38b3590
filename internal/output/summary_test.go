package output

import (
	"bytes"
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintSummary(t *testing.T) {
	color.Disable()

	var buf bytes.Buffer
	PrintSummary(&buf, sampleResult())
	out := buf.String()

	assert.Contains(t, out, "Test Suites To Run")
	assert.Contains(t, out, "[e2e] 1 suite(s)")
	assert.Contains(t, out, "• accessibility")
	assert.Contains(t, out, "[acceptance] none")
	assert.Contains(t, out, "pages: splash")
	assert.Contains(t, out, "[lighthouse_accessibility] none")
}

func TestPrintSummaryDefaultPages(t *testing.T) {
	color.Disable()

	result := sampleResult()
	result.LighthousePerformance.Suites[0].PagesToRun = []string{}

	var buf bytes.Buffer
	PrintSummary(&buf, result)

	assert.Contains(t, buf.String(), "(default pages)")
}
