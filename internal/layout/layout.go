// Package layout describes the physical exam-hall seating grid.  The layout
// is loaded once at startup and treated as read-only afterwards; every query
// on it is a pure function of row/position arithmetic.  Visual sections are
// carried only for rendering on the client – they never influence which
// seats count as neighbours.
package layout

import "fmt"

// Seat flow constants control how a row is rendered on the client.  They
// have no effect on validation or adjacency.
const (
	FlowRow    = "row"
	FlowColumn = "column"
)

// RowSpec describes a single physical row of seats.
//
// Fields:
//  RowIndex      – 1-based row number, unique within the layout.
//  SeatCount     – number of seats in this row, at least 1.
//  Section       – named grouping used for styling (e.g. "main", "side").
//  SeatFlow      – rendering direction, FlowRow or FlowColumn.
//  LabelPosition – where the row label is drawn ("left" or "right").
type RowSpec struct {
	RowIndex      int    `json:"row"`
	SeatCount     int    `json:"seats"`
	Section       string `json:"section"`
	SeatFlow      string `json:"seat_flow"`
	LabelPosition string `json:"label_position"`
}

// VisualSection groups rows for rendering.  The order of Rows is the order
// in which the client should draw them, which may differ from numeric row
// order.  Sections carry no semantic weight: adjacency is computed from row
// numbers alone.
type VisualSection struct {
	ID          string `json:"id"`
	Layout      string `json:"layout"`
	Rows        []int  `json:"rows"`
	Description string `json:"description"`
}

// Seat addresses a single cell in the grid, independent of any session.
type Seat struct {
	Row int `json:"row"`
	Pos int `json:"pos"`
}

// SeatLayout is the validated, immutable seating grid.  Construct it with
// New; a zero SeatLayout is not usable.
type SeatLayout struct {
	rows     []RowSpec
	sections []VisualSection
	byIndex  map[int]int // row index -> position in rows slice
}

// New validates the given row specs and builds a SeatLayout.  Rows are
// stored sorted by RowIndex.  A duplicate row index, a row index below 1 or
// a non-positive seat count is a configuration defect and returns an error;
// callers are expected to treat that as fatal at startup.
func New(rows []RowSpec, sections []VisualSection) (*SeatLayout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout: no rows defined")
	}
	l := &SeatLayout{
		rows:     make([]RowSpec, 0, len(rows)),
		sections: sections,
		byIndex:  make(map[int]int, len(rows)),
	}
	for _, r := range rows {
		if r.RowIndex < 1 {
			return nil, fmt.Errorf("layout: invalid row index %d", r.RowIndex)
		}
		if r.SeatCount < 1 {
			return nil, fmt.Errorf("layout: row %d has invalid seat count %d", r.RowIndex, r.SeatCount)
		}
		if _, dup := l.byIndex[r.RowIndex]; dup {
			return nil, fmt.Errorf("layout: duplicate row index %d", r.RowIndex)
		}
		l.byIndex[r.RowIndex] = -1 // mark; fixed after sort
		l.rows = append(l.rows, r)
	}
	// Insertion sort keeps rows ordered by index without pulling in sort for
	// the handful of rows a hall has.
	for i := 1; i < len(l.rows); i++ {
		for j := i; j > 0 && l.rows[j-1].RowIndex > l.rows[j].RowIndex; j-- {
			l.rows[j-1], l.rows[j] = l.rows[j], l.rows[j-1]
		}
	}
	for i, r := range l.rows {
		l.byIndex[r.RowIndex] = i
	}
	return l, nil
}

// Rows returns the row specs ordered by row index.  The returned slice is a
// copy; mutating it does not affect the layout.
func (l *SeatLayout) Rows() []RowSpec {
	out := make([]RowSpec, len(l.rows))
	copy(out, l.rows)
	return out
}

// Sections returns the visual sections in rendering order.
func (l *SeatLayout) Sections() []VisualSection {
	out := make([]VisualSection, len(l.sections))
	copy(out, l.sections)
	return out
}

// TotalSeats returns the number of seats across all rows.  Session capacity
// is always derived from this value, never stored.
func (l *SeatLayout) TotalSeats() int {
	total := 0
	for _, r := range l.rows {
		total += r.SeatCount
	}
	return total
}

// MaxSeatsPerRow returns the widest row's seat count.
func (l *SeatLayout) MaxSeatsPerRow() int {
	max := 0
	for _, r := range l.rows {
		if r.SeatCount > max {
			max = r.SeatCount
		}
	}
	return max
}

// SeatsInRow returns the seat count for the given row, or 0 when the row is
// not part of the layout.
func (l *SeatLayout) SeatsInRow(row int) int {
	if i, ok := l.byIndex[row]; ok {
		return l.rows[i].SeatCount
	}
	return 0
}

// IsValidSeat reports whether (row, pos) addresses an existing seat.
func (l *SeatLayout) IsValidSeat(row, pos int) bool {
	n := l.SeatsInRow(row)
	return n > 0 && pos >= 1 && pos <= n
}

// AllSeats returns every valid seat ordered by row, then position.
func (l *SeatLayout) AllSeats() []Seat {
	seats := make([]Seat, 0, l.TotalSeats())
	for _, r := range l.rows {
		for p := 1; p <= r.SeatCount; p++ {
			seats = append(seats, Seat{Row: r.RowIndex, Pos: p})
		}
	}
	return seats
}

// NeighborsOf returns the seats adjacent to (row, pos).  Horizontal
// neighbours are pos±1 within the same row.  Vertical neighbours are the
// same position in row±1, included only when that row exists and is wide
// enough to have a seat at the position.  An invalid seat has no
// neighbours.
func (l *SeatLayout) NeighborsOf(row, pos int) []Seat {
	if !l.IsValidSeat(row, pos) {
		return nil
	}
	var out []Seat
	if pos > 1 {
		out = append(out, Seat{Row: row, Pos: pos - 1})
	}
	if pos < l.SeatsInRow(row) {
		out = append(out, Seat{Row: row, Pos: pos + 1})
	}
	if pos <= l.SeatsInRow(row-1) {
		out = append(out, Seat{Row: row - 1, Pos: pos})
	}
	if pos <= l.SeatsInRow(row+1) {
		out = append(out, Seat{Row: row + 1, Pos: pos})
	}
	return out
}
