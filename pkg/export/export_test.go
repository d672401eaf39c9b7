package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Preamble: [][]string{
			{"School", "Hillside Primary"},
			{"Grade", "Grade 3"},
		},
		Headers: []string{"Day", "Topic"},
		Rows: []map[string]string{
			{"Day": "Monday", "Topic": "Fractions"},
			{"Day": "Tuesday", "Topic": "Decimals"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "School,Hillside Primary")
	assert.Contains(t, text, "Day,Topic")
	assert.Contains(t, text, "Monday,Fractions")
	assert.True(t, strings.Index(text, "School") < strings.Index(text, "Day,Topic"))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{
		Preamble: [][]string{{"Teacher", "J. Doe"}},
		Headers:  []string{"Day", "Skill", "Activity"},
		Rows: []map[string]string{
			{"Day": "Monday", "Skill": "Dribbling", "Activity": "Relay drills"},
		},
	}

	out, err := NewPDFExporter().Render(data, "Weekly Plan")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "title")
	require.Error(t, err)
}
