package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/scoretally/internal/model"
	"github.com/verte-zerg/scoretally/internal/stats"
)

func newTestModel(t *testing.T, order stats.Order) *Model {
	t.Helper()
	tally, err := stats.Aggregate([]model.Record{
		model.NameOnly{Name: "carol"},
		model.NamedScore{Name: "alice", Score: 3},
		model.NamedScore{Name: "bob", Score: 20},
		model.NameOnly{Name: "alice"},
	})
	require.NoError(t, err)
	m := NewModel("scores.txt", tally, order)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelOrder(t *testing.T) {
	assert.Equal(t, []string{"alice", "bob", "carol"}, newTestModel(t, stats.OrderName).names)
	assert.Equal(t, []string{"carol", "alice", "bob"}, newTestModel(t, stats.OrderFirstSeen).names)
}

func TestUpdateTogglesOrder(t *testing.T) {
	m := newTestModel(t, stats.OrderName)

	m.Update(keyMsg("o"))
	assert.Equal(t, sortFirstSeen, m.mode)
	assert.Equal(t, []string{"carol", "alice", "bob"}, m.names)

	m.Update(keyMsg("t"))
	assert.Equal(t, sortTotal, m.mode)
	assert.Equal(t, []string{"bob", "alice", "carol"}, m.names)

	m.Update(keyMsg("o"))
	assert.Equal(t, sortName, m.mode)
}

func TestSelectedNameFollowsCursor(t *testing.T) {
	m := newTestModel(t, stats.OrderName)
	name, ok := m.SelectedName()
	require.True(t, ok)
	assert.Equal(t, "alice", name)

	m.Update(keyMsg("G"))
	name, ok = m.SelectedName()
	require.True(t, ok)
	assert.Equal(t, "carol", name)
}

func TestViewShowsSummaryOfSelection(t *testing.T) {
	m := newTestModel(t, stats.OrderName)
	out := m.View()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Source: scores.txt")
	assert.Contains(t, out, "People: 3")
	assert.Contains(t, out, "alice took 1 test with a total score of 3. They missed 1 test")
	assert.Equal(t, 20, len(strings.Split(out, "\n")))
}

func TestViewEmptyBeforeResize(t *testing.T) {
	m := NewModel("x", stats.NewTally(), stats.OrderName)
	assert.Equal(t, "", m.View())
	_, ok := m.SelectedName()
	assert.False(t, ok)
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, stats.OrderName)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "abcdef", truncateLine("abcdef", 0))
	assert.Equal(t, "ab...", truncateLine("abcdefgh", 5))
	assert.Equal(t, "ab", truncateLine("abcdef", 2))
}

func TestTruncateLineWideRunes(t *testing.T) {
	assert.Equal(t, "田中太郎", truncateLine("田中太郎", 8))
	assert.Equal(t, "田...", truncateLine("田中太郎", 5))

	line := truncateLine("Source: "+strings.Repeat("田", 30), 20)
	assert.LessOrEqual(t, lipgloss.Width(line), 20)
	assert.True(t, strings.HasSuffix(line, "..."))
}
