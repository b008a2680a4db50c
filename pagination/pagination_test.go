package pagination

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func seq(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i + 1
	}
	return s
}

func TestPaginate(t *testing.T) {
	t.Run("first page is full", func(t *testing.T) {
		page := Paginate(seq(13), "1", 10)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 2, page.NumPages)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, page.Items)
	})

	t.Run("last page holds the remainder", func(t *testing.T) {
		page := Paginate(seq(13), "2", 10)
		assert.Len(t, page.Items, 3)
		assert.Equal(t, []int{11, 12, 13}, page.Items)
		assert.False(t, page.HasNext())
		assert.True(t, page.HasPrevious())
	})

	t.Run("missing param selects last page", func(t *testing.T) {
		page := Paginate(seq(13), "", 10)
		assert.Equal(t, 2, page.Number)
	})

	t.Run("garbage param selects last page", func(t *testing.T) {
		for _, param := range []string{"x", "-1", "0", "1.5", "999"} {
			page := Paginate(seq(13), param, 10)
			assert.Equal(t, 2, page.Number, "param %q", param)
		}
	})

	t.Run("empty sequence yields empty page one", func(t *testing.T) {
		page := Paginate([]int{}, "5", 10)
		assert.Empty(t, page.Items)
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 1, page.NumPages)
		assert.False(t, page.HasNext())
		assert.False(t, page.HasPrevious())
	})

	t.Run("exact multiple has no short page", func(t *testing.T) {
		page := Paginate(seq(20), "2", 10)
		assert.Len(t, page.Items, 10)
		assert.Equal(t, 2, page.NumPages)
	})

	// Consecutive pages concatenate to the full sequence, without
	// duplicates or gaps.
	t.Run("pages cover the sequence", func(t *testing.T) {
		items := seq(37)
		var got []int
		first := Paginate(items, "1", 10)
		for n := 1; n <= first.NumPages; n++ {
			page := Paginate(items, strconv.Itoa(n), 10)
			assert.LessOrEqual(t, len(page.Items), 10)
			got = append(got, page.Items...)
		}
		assert.Equal(t, items, got)
	})
}
