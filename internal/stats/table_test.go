package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Name", "Completed", "Missed", "Total"}
	rows := [][]string{
		{"Alice", "2", "0", "15"},
		{"田中", "1", "1", "-3"},
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}

	lines := FormatTable(headers, rows, rightAlign)
	require.Len(t, lines, 4)
	assert.Equal(t, "Name  Completed Missed Total", lines[0])
	assert.Equal(t, "----- --------- ------ -----", lines[1])
	assert.Equal(t, "Alice         2      0    15", lines[2])
	assert.Equal(t, "田中          1      1    -3", lines[3])
}

func TestFormatTableEmpty(t *testing.T) {
	assert.Nil(t, FormatTable(nil, nil, nil))
}
