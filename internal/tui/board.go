package tui

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/ensigniasec/reel/internal/carousel"
	"github.com/ensigniasec/reel/internal/source"
)

// card is the visual object behind one carousel slot.
type card struct {
	id        uuid.UUID
	dataIndex int
	text      string
	transform carousel.Transform
	selected  bool
}

// board hosts the carousel's cards on a grid of terminal cells. Horizontal
// units are columns; vertical units are rows * rowPixels.
type board struct {
	cards     map[uuid.UUID]*card
	src       source.Source
	cols      int
	rows      int
	rowPixels float64

	lastSettled int
	settles     int
}

func newBoard(cols, rows int, rowPixels float64) *board {
	return &board{
		cards:       make(map[uuid.UUID]*card),
		cols:        cols,
		rows:        rows,
		rowPixels:   rowPixels,
		lastSettled: -1,
	}
}

func (b *board) Acquire() (uuid.UUID, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, err
	}
	b.cards[id] = &card{id: id, dataIndex: -1}
	return id, nil
}

func (b *board) Release(id uuid.UUID) { delete(b.cards, id) }

func (b *board) ProvideData(id uuid.UUID, dataIndex int) {
	c, ok := b.cards[id]
	if !ok {
		return
	}
	c.dataIndex = dataIndex
	c.text = b.item(dataIndex)
}

func (b *board) Selected(id uuid.UUID, selected bool) {
	if c, ok := b.cards[id]; ok {
		c.selected = selected
	}
}

func (b *board) ApplyTransform(id uuid.UUID, t carousel.Transform) {
	if c, ok := b.cards[id]; ok {
		c.transform = t
	}
}

func (b *board) Bounds() (float64, float64) {
	return float64(b.cols), float64(b.rows) * b.rowPixels
}

// PreferredWidth is the full board width: every card is the same size before
// scaling.
func (b *board) PreferredWidth(uuid.UUID) float64 { return float64(b.cols) }

func (b *board) Settled(centerIndex int) {
	b.lastSettled = centerIndex
	b.settles++
}

func (b *board) item(i int) string {
	if b.src == nil {
		return ""
	}
	if n := b.src.Len(); n >= 0 && (i < 0 || i >= n) {
		return ""
	}
	return b.src.Item(i)
}

// placement is where a card lands on the canvas.
type placement struct {
	card  *card
	row   int
	col   int
	width int
}

// layout returns at most one card per row. Cards are placed in depth order so
// the deepest card sharing a row wins.
func (b *board) layout() []placement {
	cards := make([]*card, 0, len(b.cards))
	for _, c := range b.cards {
		if c.transform.Scale > 0 {
			cards = append(cards, c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].transform.Depth != cards[j].transform.Depth {
			return cards[i].transform.Depth < cards[j].transform.Depth
		}
		return cards[i].dataIndex < cards[j].dataIndex
	})

	byRow := make(map[int]placement, len(cards))
	half := float64(b.rows) / 2
	for _, c := range cards {
		row := int(math.Round(half - c.transform.Y/b.rowPixels))
		if row < 0 || row >= b.rows {
			continue
		}
		width := int(math.Round(float64(b.cols) * c.transform.Scale))
		if width < 1 {
			continue
		}
		col := max(0, int(math.Round(c.transform.X)))
		width = min(width, b.cols-col)
		if width < 1 {
			continue
		}
		byRow[row] = placement{card: c, row: row, col: col, width: width}
	}

	out := make([]placement, 0, len(byRow))
	for _, p := range byRow {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].row < out[j].row })
	return out
}
