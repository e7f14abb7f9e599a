package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scenarioRecords()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\uFEFF"), "export must start with a BOM")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\uFEFF")), "\n")
	assert.Equal(t, []string{
		"date,roomType,revenue",
		"2024-01-01,Standard,100",
		"2024-01-01,Deluxe,200",
		"2024-01-02,Standard,150",
	}, lines)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "\uFEFFdate,roomType,revenue\n", buf.String())
}
