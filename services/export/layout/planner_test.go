package layout

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var a4 = Page{Height: 297, Margin: 20}

func heights(hs ...float64) []Block {
	out := make([]Block, len(hs))
	for i, h := range hs {
		out[i] = Block{Kind: KindField, Height: h}
	}
	return out
}

func TestPlanFillsPageThenBreaks(t *testing.T) {
	page := Page{Height: 100, Margin: 10} // 80 usable
	l := Plan(heights(30, 30, 30, 10), page)

	require.Len(t, l.Placed, 4)
	assert.Equal(t, 2, l.Pages)
	assert.Equal(t, 1, l.Breaks)
	assert.Equal(t, []int{1, 1, 2, 2}, pagesOf(l))
	assert.Equal(t, 10.0, l.Placed[0].Y)
	assert.Equal(t, 40.0, l.Placed[1].Y)
	assert.Equal(t, 10.0, l.Placed[2].Y, "third block starts at top margin")
	assert.Equal(t, 40.0, l.Placed[3].Y)
}

func TestPlanExactFitStaysOnPage(t *testing.T) {
	page := Page{Height: 100, Margin: 10}
	l := Plan(heights(40, 40), page)
	assert.Equal(t, 1, l.Pages)
}

func TestOversizedBlockGetsItsOwnPage(t *testing.T) {
	page := Page{Height: 100, Margin: 10}

	t.Run("after content", func(t *testing.T) {
		l := Plan(heights(10, 200, 10), page)
		assert.Equal(t, []int{1, 2, 3}, pagesOf(l))
		assert.Equal(t, 10.0, l.Placed[1].Y)
	})

	t.Run("on an empty page no extra break", func(t *testing.T) {
		l := Plan(heights(200, 10), page)
		assert.Equal(t, []int{1, 2}, pagesOf(l))
		assert.Equal(t, 1, l.Breaks)
	})
}

func TestOptionalBlocksAreSkippedNotBroken(t *testing.T) {
	page := Page{Height: 100, Margin: 10}
	blocks := heights(75)
	blocks = append(blocks, Block{Kind: KindSeparator, Height: 10, Optional: true})
	blocks = append(blocks, heights(5)...)

	l := Plan(blocks, page)
	assert.Equal(t, 1, l.Skipped)
	assert.Equal(t, 1, l.Pages, "the 5-high block still fits after the skipped separator")
	require.Len(t, l.Placed, 2)
	assert.Equal(t, KindField, l.Placed[1].Kind)
}

func TestBreakBeforeSkipsEmptyPage(t *testing.T) {
	page := Page{Height: 100, Margin: 10}
	blocks := heights(10)
	blocks = append(blocks, Block{Kind: KindHeading, Height: 10, BreakBefore: true})
	l := Plan(blocks, page)
	assert.Equal(t, []int{1, 2}, pagesOf(l))

	l = Plan([]Block{{Kind: KindHeading, Height: 10, BreakBefore: true}}, page)
	assert.Equal(t, 1, l.Pages)
}

func TestEmptyInputIsOnePage(t *testing.T) {
	l := Plan(nil, a4)
	assert.Equal(t, 1, l.Pages)
	assert.Empty(t, l.Placed)
}

// No block crosses the bottom margin unless it is alone at the top of its page, and
// every break was necessary: the block after it would not have fit.
func TestPlanInvariantsOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for iter := 0; iter < 200; iter++ {
		blocks := make([]Block, rng.Intn(60))
		for i := range blocks {
			blocks[i] = Block{Height: float64(rng.Intn(60) + 1)}
			if rng.Intn(8) == 0 {
				blocks[i].Height = 300
			}
		}
		l := Plan(blocks, a4)
		require.Len(t, l.Placed, len(blocks))

		for i, p := range l.Placed {
			if p.Y+p.Height > a4.Bottom() {
				assert.Equal(t, a4.Top(), p.Y, "overflowing block must start a page")
				assert.Greater(t, p.Height, a4.Usable())
			}
			if i > 0 && p.Page != l.Placed[i-1].Page {
				prev := l.Placed[i-1]
				assert.Greater(t, prev.Y+prev.Height+p.Height, a4.Bottom(), "break %d was not needed", i)
			}
		}
	}
}

// A long notes field split into one block per wrapped line must break between two
// notes lines, never inside a labeled field.
func TestNotesBreakBetweenLines(t *testing.T) {
	const lineHeight = 8.0
	page := Page{Height: 10*lineHeight + 2*10, Margin: 10}

	var blocks []Block
	for _, label := range []string{"Program", "Location", "Duration"} {
		blocks = append(blocks, Block{Kind: KindField, Height: lineHeight, Lines: []string{label}})
	}
	notes := WrapWords(strings.Repeat("abcd ", 100), 60, MonoWidth(2))
	require.GreaterOrEqual(t, len(notes), 10)
	for _, line := range notes {
		blocks = append(blocks, Block{Kind: KindNotes, Height: lineHeight, Lines: []string{line}})
	}

	l := Plan(blocks, page)
	require.Greater(t, l.Pages, 1)

	breaks := 0
	for i := 1; i < len(l.Placed); i++ {
		if l.Placed[i].Page != l.Placed[i-1].Page {
			breaks++
			assert.Equal(t, KindNotes, l.Placed[i-1].Kind)
			assert.Equal(t, KindNotes, l.Placed[i].Kind)
		}
	}
	assert.GreaterOrEqual(t, breaks, 1)
}

func pagesOf(l Layout) []int {
	out := make([]int, len(l.Placed))
	for i, p := range l.Placed {
		out[i] = p.Page
	}
	return out
}
