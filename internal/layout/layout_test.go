package layout

import "testing"

func twoBlockLayout(t *testing.T) *SeatLayout {
	t.Helper()
	l, err := New([]RowSpec{
		{RowIndex: 1, SeatCount: 4, Section: "main"},
		{RowIndex: 2, SeatCount: 2, Section: "main"},
		{RowIndex: 3, SeatCount: 2, Section: "main"},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestNewRejectsBadRows(t *testing.T) {
	tests := []struct {
		name string
		rows []RowSpec
	}{
		{name: "empty", rows: nil},
		{name: "duplicate row index", rows: []RowSpec{{RowIndex: 1, SeatCount: 2}, {RowIndex: 1, SeatCount: 3}}},
		{name: "zero seat count", rows: []RowSpec{{RowIndex: 1, SeatCount: 0}}},
		{name: "negative seat count", rows: []RowSpec{{RowIndex: 2, SeatCount: -1}}},
		{name: "row index below one", rows: []RowSpec{{RowIndex: 0, SeatCount: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.rows, nil); err == nil {
				t.Fatalf("New accepted malformed rows %v", tt.rows)
			}
		})
	}
}

func TestRowsSortedByIndex(t *testing.T) {
	l, err := New([]RowSpec{
		{RowIndex: 3, SeatCount: 1},
		{RowIndex: 1, SeatCount: 1},
		{RowIndex: 2, SeatCount: 1},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rows := l.Rows()
	for i, want := range []int{1, 2, 3} {
		if rows[i].RowIndex != want {
			t.Errorf("rows[%d].RowIndex = %d, want %d", i, rows[i].RowIndex, want)
		}
	}
}

func TestCounts(t *testing.T) {
	l := twoBlockLayout(t)
	if got := l.TotalSeats(); got != 8 {
		t.Errorf("TotalSeats = %d, want 8", got)
	}
	if got := l.MaxSeatsPerRow(); got != 4 {
		t.Errorf("MaxSeatsPerRow = %d, want 4", got)
	}
	if got := l.SeatsInRow(2); got != 2 {
		t.Errorf("SeatsInRow(2) = %d, want 2", got)
	}
	if got := l.SeatsInRow(99); got != 0 {
		t.Errorf("SeatsInRow(99) = %d, want 0", got)
	}
}

func TestIsValidSeat(t *testing.T) {
	l := twoBlockLayout(t)
	valid := [][2]int{{1, 1}, {1, 4}, {2, 1}, {2, 2}, {3, 2}}
	for _, s := range valid {
		if !l.IsValidSeat(s[0], s[1]) {
			t.Errorf("IsValidSeat(%d,%d) = false, want true", s[0], s[1])
		}
	}
	invalid := [][2]int{{1, 0}, {1, 5}, {2, 3}, {0, 1}, {4, 1}, {99, 1}}
	for _, s := range invalid {
		if l.IsValidSeat(s[0], s[1]) {
			t.Errorf("IsValidSeat(%d,%d) = true, want false", s[0], s[1])
		}
	}
}

func TestAllSeats(t *testing.T) {
	l := twoBlockLayout(t)
	seats := l.AllSeats()
	if len(seats) != 8 {
		t.Fatalf("AllSeats returned %d seats, want 8", len(seats))
	}
	if seats[0] != (Seat{Row: 1, Pos: 1}) {
		t.Errorf("first seat = %+v, want {1 1}", seats[0])
	}
	if seats[len(seats)-1] != (Seat{Row: 3, Pos: 2}) {
		t.Errorf("last seat = %+v, want {3 2}", seats[len(seats)-1])
	}
}

func seatSet(seats []Seat) map[Seat]bool {
	m := make(map[Seat]bool, len(seats))
	for _, s := range seats {
		m[s] = true
	}
	return m
}

func TestNeighborsOf(t *testing.T) {
	// Row 1 has 4 seats, rows 2 and 3 have 2 seats each, so vertical
	// adjacency across the 1/2 boundary only exists at positions 1 and 2.
	l := twoBlockLayout(t)
	tests := []struct {
		name string
		row  int
		pos  int
		want []Seat
	}{
		{
			name: "corner seat",
			row:  1, pos: 1,
			want: []Seat{{1, 2}, {2, 1}},
		},
		{
			name: "wide row seat with no row above or below at its position",
			row:  1, pos: 4,
			want: []Seat{{1, 3}},
		},
		{
			name: "boundary position still adjacent vertically",
			row:  1, pos: 2,
			want: []Seat{{1, 1}, {1, 3}, {2, 2}},
		},
		{
			name: "middle row has both vertical neighbours",
			row:  2, pos: 1,
			want: []Seat{{2, 2}, {1, 1}, {3, 1}},
		},
		{
			name: "last row",
			row:  3, pos: 2,
			want: []Seat{{3, 1}, {2, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.NeighborsOf(tt.row, tt.pos)
			if len(got) != len(tt.want) {
				t.Fatalf("NeighborsOf(%d,%d) = %v, want %v", tt.row, tt.pos, got, tt.want)
			}
			gotSet := seatSet(got)
			for _, w := range tt.want {
				if !gotSet[w] {
					t.Errorf("NeighborsOf(%d,%d) missing %+v (got %v)", tt.row, tt.pos, w, got)
				}
			}
		})
	}
}

func TestNeighborsOfInvalidSeat(t *testing.T) {
	l := twoBlockLayout(t)
	if got := l.NeighborsOf(99, 1); got != nil {
		t.Errorf("NeighborsOf(99,1) = %v, want nil", got)
	}
	if got := l.NeighborsOf(2, 3); got != nil {
		t.Errorf("NeighborsOf(2,3) = %v, want nil", got)
	}
}

func TestDefaultLayout(t *testing.T) {
	l := Default()
	if got := l.TotalSeats(); got != 32 {
		t.Errorf("TotalSeats = %d, want 32", got)
	}
	if len(l.Sections()) != 2 {
		t.Errorf("Sections = %d, want 2", len(l.Sections()))
	}
	// All rows are four wide, so an interior seat has all four neighbours.
	got := seatSet(l.NeighborsOf(3, 2))
	for _, w := range []Seat{{3, 1}, {3, 3}, {2, 2}, {4, 2}} {
		if !got[w] {
			t.Errorf("default layout NeighborsOf(3,2) missing %+v", w)
		}
	}
}
