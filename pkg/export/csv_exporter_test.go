package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Student", "Status"},
		Rows: []map[string]string{
			{"Student": "Thabo Mokoena", "Status": "Approved"},
			{"Student": "Naledi Khumalo", "Status": "Submitted"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Student,Status\nThabo Mokoena,Approved\nNaledi Khumalo,Submitted\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Student", "Status"},
		Rows:    []map[string]string{{"Student": "Thabo Mokoena", "Status": "Approved"}},
	}

	out, err := NewPDFExporter().Render(data, "Application Register")
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}
