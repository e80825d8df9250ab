package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/scoretally/internal/model"
)

func TestParseLineNameOnly(t *testing.T) {
	for _, line := range []string{"Bob", "", "  Alice  ", "Zoë"} {
		rec, err := ParseLine(line)
		require.NoError(t, err)
		assert.Equal(t, model.NameOnly{Name: line}, rec)
	}
}

func TestParseLineNamedScore(t *testing.T) {
	tests := []struct {
		line string
		want model.Record
	}{
		{"Alice:10", model.NamedScore{Name: "Alice", Score: 10}},
		{"Dan:-3", model.NamedScore{Name: "Dan", Score: -3}},
		{"Eve:+7", model.NamedScore{Name: "Eve", Score: 7}},
		{":4", model.NamedScore{Name: "", Score: 4}},
		{"Frank:5:extra", model.NamedScore{Name: "Frank", Score: 5}},
		{"Gina :0", model.NamedScore{Name: "Gina ", Score: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			rec, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec)
		})
	}
}

func TestParseLineMalformedScore(t *testing.T) {
	for _, tc := range []struct{ line, text string }{
		{"Carol:abc", "abc"},
		{"Carol:", ""},
		{"Carol: 5", " 5"},
		{"Carol:99999999999999999999", "99999999999999999999"},
		{"Carol::5", ""},
	} {
		_, err := ParseLine(tc.line)
		require.Error(t, err)
		var malformed *MalformedScoreError
		require.True(t, errors.As(err, &malformed), "line %q", tc.line)
		assert.Equal(t, tc.text, malformed.Text)
		var numErr *strconv.NumError
		assert.True(t, errors.As(err, &numErr))
	}
}

func TestParseLineTrimNames(t *testing.T) {
	rec, err := ParseLineWith("  Alice \t:5", Options{TrimNames: true})
	require.NoError(t, err)
	assert.Equal(t, model.NamedScore{Name: "Alice", Score: 5}, rec)

	rec, err = ParseLineWith(" Bob ", Options{TrimNames: true})
	require.NoError(t, err)
	assert.Equal(t, model.NameOnly{Name: "Bob"}, rec)

	_, err = ParseLineWith("Alice: 5", Options{TrimNames: true})
	require.Error(t, err)
}

func TestParseContent(t *testing.T) {
	records, err := Parse("Alice:10\nBob\nAlice:5\n\n  \n", Options{})
	require.NoError(t, err)
	assert.Equal(t, []model.Record{
		model.NamedScore{Name: "Alice", Score: 10},
		model.NameOnly{Name: "Bob"},
		model.NamedScore{Name: "Alice", Score: 5},
	}, records)
}

func TestParseKeepsLeadingAndInnerWhitespace(t *testing.T) {
	records, err := Parse("\n Bob\n\nAlice:1", Options{})
	require.NoError(t, err)
	assert.Equal(t, []model.Record{
		model.NameOnly{Name: ""},
		model.NameOnly{Name: " Bob"},
		model.NameOnly{Name: ""},
		model.NamedScore{Name: "Alice", Score: 1},
	}, records)
}

func TestParseEmptyContent(t *testing.T) {
	for _, content := range []string{"", "\n\n", " \t\n"} {
		records, err := Parse(content, Options{})
		require.NoError(t, err)
		assert.Equal(t, []model.Record{model.NameOnly{Name: ""}}, records)
	}
}

func TestParseFirstErrorAborts(t *testing.T) {
	records, err := Parse("a:1\nb:x\nc:y", Options{})
	require.Error(t, err)
	assert.Nil(t, records)

	var lineErr *LineError
	require.True(t, errors.As(err, &lineErr))
	assert.Equal(t, 2, lineErr.Line)

	var malformed *MalformedScoreError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "x", malformed.Text)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	require.NoError(t, os.WriteFile(path, []byte("Alice:10\nBob\n"), 0o644))

	records, err := ParseFile(path, Options{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestParseFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, err := ParseFile(path, Options{})
	require.Error(t, err)

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, path, readErr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
