package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorFiltersUnchangedValues(t *testing.T) {
	starts := 0
	c := newLinear(t, 3, WithHooks(Hooks{OnTransitionStart: func(int, int) { starts++ }}))
	sel := NewSelector(c)
	assert.Equal(t, NoModel, sel.Current())

	changed, err := sel.Set(1)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = sel.Set(1)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, starts, "an unchanged value never reaches the controller")

	changed, err = sel.Set(2)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, starts)
	assert.Equal(t, 2, c.State().TargetModel)
}

func TestSelectorKeepsValueOnError(t *testing.T) {
	c := newLinear(t, 2)
	sel := NewSelector(c)
	_, err := sel.Set(0)
	require.NoError(t, err)

	changed, err := sel.Set(5)
	assert.ErrorIs(t, err, ErrSelectionOutOfRange)
	assert.False(t, changed)
	assert.Equal(t, 0, sel.Current())
}

func TestSelectorNextPrevWrap(t *testing.T) {
	tests := []struct {
		name  string
		moves []int
		want  []int
	}{
		{"next from nothing", []int{1, 1, 1, 1}, []int{0, 1, 2, 0}},
		{"prev from nothing", []int{-1, -1, -1, -1}, []int{2, 1, 0, 2}},
		{"mixed", []int{1, -1, -1, 1}, []int{0, 2, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelector(newLinear(t, 3))
			for i, m := range tt.moves {
				if m > 0 {
					require.NoError(t, sel.Next())
				} else {
					require.NoError(t, sel.Prev())
				}
				assert.Equal(t, tt.want[i], sel.Current(), "move %d", i)
			}
		})
	}
}
