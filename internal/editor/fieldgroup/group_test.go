package fieldgroup

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

type pair struct {
	Left  string
	Right string
}

func blankPair(p pair) bool { return BlankString(p.Left) && BlankString(p.Right) }

func TestNew_SeedsOneEmptyEntry(t *testing.T) {
	g := NewStrings(nil)
	assert.Equal(t, []string{""}, g.Entries())

	seeded := New(pair{}, blankPair, []pair{{"a", "1"}, {"b", "2"}})
	assert.Equal(t, 2, seeded.Len())
}

func TestNew_DoesNotAliasSeed(t *testing.T) {
	seed := []string{"a", "b"}
	g := NewStrings(seed)
	require.NoError(t, g.SetAt(0, "changed"))

	assert.Equal(t, "a", seed[0])
}

func TestRemoveAt_SingleEntryResetsToEmpty(t *testing.T) {
	for _, value := range []string{"", "Pain relief", "   "} {
		t.Run(fmt.Sprintf("value=%q", value), func(t *testing.T) {
			g := NewStrings([]string{value})

			require.NoError(t, g.RemoveAt(0))

			assert.Equal(t, 1, g.Len())
			assert.Equal(t, []string{""}, g.Entries())
		})
	}

	records := New(pair{}, blankPair, []pair{{"A", "10mg"}})
	require.NoError(t, records.RemoveAt(0))
	assert.Equal(t, []pair{{}}, records.Entries())
}

func TestRemoveAt_PreservesOrder(t *testing.T) {
	tests := []struct {
		name   string
		index  int
		expect []string
	}{
		{"first", 0, []string{"b", "c", "d"}},
		{"middle", 2, []string{"a", "b", "d"}},
		{"last", 3, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewStrings([]string{"a", "b", "c", "d"})

			require.NoError(t, g.RemoveAt(tt.index))

			assert.Equal(t, tt.expect, g.Entries())
		})
	}
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	g := NewStrings([]string{"a", "b"})

	err := g.RemoveAt(2)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeIndexOutOfRange))
	assert.Error(t, g.RemoveAt(-1))
	assert.Equal(t, 2, g.Len())
}

func TestUpdateAt_PatchesOnlyGivenFields(t *testing.T) {
	g := New(pair{}, blankPair, []pair{{"A", "10mg"}, {"B", "20mg"}})

	err := g.UpdateAt(1, PatchFunc[pair](func(p pair) pair {
		p.Right = "25mg"
		return p
	}))
	require.NoError(t, err)

	assert.Equal(t, []pair{{"A", "10mg"}, {"B", "25mg"}}, g.Entries())
}

func TestUpdateAt_OutOfRangeIsAnError(t *testing.T) {
	g := NewStrings(nil)

	err := g.UpdateAt(1, Replace[string]{Value: "x"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeIndexOutOfRange))
	assert.Equal(t, []string{""}, g.Entries())
}

func TestAdd_AppendsWithoutBound(t *testing.T) {
	g := NewStrings(nil)
	for i := 0; i < 50; i++ {
		g.Add(fmt.Sprintf("use-%d", i))
	}
	g.AddEmpty()

	assert.Equal(t, 52, g.Len())
	last, err := g.At(51)
	require.NoError(t, err)
	assert.Equal(t, "", last)
}

func TestNonBlank_DropsBlankEntriesInOrder(t *testing.T) {
	g := New(pair{}, blankPair, []pair{{"A", "10mg"}, {" ", ""}, {"", "5mg"}, {}})

	assert.Equal(t, []pair{{"A", "10mg"}, {"", "5mg"}}, g.NonBlank())
	assert.Equal(t, 4, g.Len())
}

func TestReset(t *testing.T) {
	g := NewStrings([]string{"a", "b"})
	g.Reset()
	assert.Equal(t, []string{""}, g.Entries())
}
