package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"ID", "Title"},
		[][]string{
			{"1", "Login happy path"},
			{"20", "Checkout"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4, "header, separator, two rows")
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[1], "─")
	assert.Contains(t, lines[2], "Login happy path")
	assert.Contains(t, lines[3], "20")
}

func TestRenderTable_ShortRowsPad(t *testing.T) {
	out := RenderTable([]string{"A", "B", "C"}, [][]string{{"only"}})
	assert.Contains(t, out, "only")
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderProgress(t *testing.T) {
	assert.Contains(t, RenderProgress(0.5, 10), "50%")
	assert.Contains(t, RenderProgress(-1, 10), "  0%")
	assert.Contains(t, RenderProgress(2, 10), "100%")
}

func TestRenderFetchProgress(t *testing.T) {
	out := RenderFetchProgress(12, "Login")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Login")
}
