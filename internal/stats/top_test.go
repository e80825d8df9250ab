package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/scoretally/internal/model"
)

func TestTopByTotal(t *testing.T) {
	tally := mustAggregate(t, []model.Record{
		model.NamedScore{Name: "b", Score: 4},
		model.NamedScore{Name: "a", Score: 4},
		model.NamedScore{Name: "c", Score: 9},
		model.NameOnly{Name: "d"},
	})
	assert.Equal(t, []string{"c", "a"}, TopByTotal(tally, 2))
	assert.Equal(t, []string{"c", "a", "b", "d"}, TopByTotal(tally, 10))
	assert.Nil(t, TopByTotal(tally, 0))
	assert.Nil(t, TopByTotal(NewTally(), 3))
}
