// Package layout decides where the blocks of a flowing document land on its pages.
//
// The planner only looks at block heights and the two placement flags; the rest of a
// Block is payload carried through for the renderer that draws it.
package layout

// BlockKind tells the renderer how to draw a block
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindText
	KindTitle
	KindField
	KindList
	KindNotes
	KindSeparator
	KindCode
)

// TextStyle is the font a block is drawn with
type TextStyle struct {
	Family string
	Style  string
	Size   float64
}

// Block is an unsplittable run of content with a known vertical extent
type Block struct {
	Kind   BlockKind
	Height float64
	Lines  []string
	Style  TextStyle

	// LineHeight is the advance between Lines when drawing; Height usually equals
	// LineHeight*len(Lines) plus trailing space.
	LineHeight float64

	// Optional blocks are dropped when they do not fit on the current page.
	Optional bool

	// BreakBefore starts the block on a fresh page unless the current one is empty.
	BreakBefore bool
}

// Page describes the vertical geometry shared by all pages
type Page struct {
	Height float64
	Margin float64
}

// Top is where the cursor starts on every page
func (p Page) Top() float64 { return p.Margin }

// Bottom is the lowest point content may reach
func (p Page) Bottom() float64 { return p.Height - p.Margin }

// Usable is the content height of a page
func (p Page) Usable() float64 { return p.Bottom() - p.Top() }

// PlacedBlock is a block with its final position. Page is 1-based; Y is the top of the
// block measured from the top edge of the page.
type PlacedBlock struct {
	Block
	Page int
	Y    float64
}

// Layout is the result of Plan
type Layout struct {
	Placed  []PlacedBlock
	Pages   int
	Breaks  int
	Skipped int
}

// Plan places blocks in order on as few pages as a greedy first-fit allows.
//
// A block that would cross the bottom margin moves to a new page. A block taller
// than a whole page is put alone at the top of a fresh page and overflows. Optional
// blocks that do not fit are skipped instead of causing a break.
func Plan(blocks []Block, page Page) Layout {
	out := Layout{Pages: 1, Placed: make([]PlacedBlock, 0, len(blocks))}
	cursor := page.Top()
	empty := true

	newPage := func() {
		out.Pages++
		out.Breaks++
		cursor = page.Top()
		empty = true
	}

	for _, b := range blocks {
		h := b.Height
		if h < 0 {
			h = 0
		}
		fits := cursor+h <= page.Bottom()

		switch {
		case b.BreakBefore && !empty:
			newPage()
		case b.Optional && !fits:
			out.Skipped++
			continue
		case !fits && !empty:
			newPage()
		}

		out.Placed = append(out.Placed, PlacedBlock{Block: b, Page: out.Pages, Y: cursor})
		cursor += h
		empty = false
	}
	return out
}

// PageOf returns the placed blocks that belong to page n
func (l Layout) PageOf(n int) []PlacedBlock {
	var out []PlacedBlock
	for _, p := range l.Placed {
		if p.Page == n {
			out = append(out, p)
		}
	}
	return out
}
