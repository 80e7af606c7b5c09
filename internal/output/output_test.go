package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestNewPrinter(t *testing.T) {
	p, err := NewPrinter(&bytes.Buffer{}, "")
	require.NoError(t, err)
	assert.Equal(t, FormatTable, p.Format())

	p, err = NewPrinter(&bytes.Buffer{}, "YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, p.Format())

	_, err = NewPrinter(&bytes.Buffer{}, "xml")
	assert.Error(t, err)
}

func TestStructured(t *testing.T) {
	tests := []struct {
		format string
		want   string
		wrote  bool
	}{
		{FormatJSON, "{\n  \"name\": \"alerts\",\n  \"count\": 3\n}\n", true},
		{FormatYAML, "name: alerts\ncount: 3\n", true},
		{FormatTable, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			p, err := NewPrinter(&buf, tt.format)
			require.NoError(t, err)

			wrote, err := p.Structured(sample{Name: "alerts", Count: 3})
			require.NoError(t, err)
			assert.Equal(t, tt.wrote, wrote)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("NAME", "SEVERITY")
	table.AddRow("ssh-bruteforce-01", "critical")
	table.AddRow("scan")

	var buf bytes.Buffer
	table.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME               SEVERITY", lines[0])
	assert.Equal(t, "-----------------  --------", lines[1])
	assert.Equal(t, "ssh-bruteforce-01  critical", lines[2])
	assert.Equal(t, "scan", lines[3])
}
