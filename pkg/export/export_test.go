package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func rosterDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Name", "Email"},
		Rows: []map[string]string{
			{"ID": "10", "Name": "Ann", "Email": "ann@example.com"},
			{"ID": "11", "Name": "Ben"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	data, err := NewCSVExporter().Render(rosterDataset())
	require.NoError(t, err)
	require.Equal(t, "ID,Name,Email\n10,Ann,ann@example.com\n11,Ben,\n", string(data))
}

func TestCSVRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	data, err := NewPDFExporter().Render(rosterDataset(), "Math 7A roster")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestPDFRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "empty")
	require.Error(t, err)
}

func TestContentTypes(t *testing.T) {
	require.Equal(t, "text/csv", NewCSVExporter().ContentType())
	require.Equal(t, "application/pdf", NewPDFExporter().ContentType())
}
