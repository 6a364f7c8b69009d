package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultTableKeepsHeaderCase(t *testing.T) {
	tbl := newResultTable("Form", "Similarity").numericColumns(1)
	tbl.add("pater", "1.00")
	tbl.add("fadar")
	out := tbl.render()

	assert.Contains(t, out, "Form")
	assert.Contains(t, out, "Similarity")
	assert.NotContains(t, out, "SIMILARITY")
	assert.Contains(t, out, "       1.00 ", "numeric cells are right-aligned")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6, "border, header, separator, two rows, border")
	assert.Contains(t, lines[4], "fadar")
}

func TestResultTableWithoutHeaders(t *testing.T) {
	assert.Empty(t, newResultTable().render())
}
