package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default returns the institute's standard exam-hall layout: a main block of
// six rows of four seats on the right of the hall and a side column of two
// rows of four seats on the left.  The side column is drawn first so the
// grid matches the physical hall when rendered.
func Default() *SeatLayout {
	rows := []RowSpec{
		{RowIndex: 1, SeatCount: 4, Section: "main", SeatFlow: FlowRow, LabelPosition: "right"},
		{RowIndex: 2, SeatCount: 4, Section: "main", SeatFlow: FlowRow, LabelPosition: "right"},
		{RowIndex: 3, SeatCount: 4, Section: "main", SeatFlow: FlowRow, LabelPosition: "right"},
		{RowIndex: 4, SeatCount: 4, Section: "main", SeatFlow: FlowRow, LabelPosition: "right"},
		{RowIndex: 5, SeatCount: 4, Section: "main", SeatFlow: FlowRow, LabelPosition: "right"},
		{RowIndex: 6, SeatCount: 4, Section: "main", SeatFlow: FlowRow, LabelPosition: "right"},
		{RowIndex: 7, SeatCount: 4, Section: "side", SeatFlow: FlowColumn, LabelPosition: "left"},
		{RowIndex: 8, SeatCount: 4, Section: "side", SeatFlow: FlowColumn, LabelPosition: "left"},
	}
	sections := []VisualSection{
		{ID: "side-column", Layout: "stack", Rows: []int{7, 8}, Description: "Left column for Grade 7 & 8"},
		{ID: "main-block", Layout: "column", Rows: []int{6, 5, 4, 3, 2, 1}, Description: "Main hall block"},
	}
	l, err := New(rows, sections)
	if err != nil {
		// The built-in layout is a compile-time constant; failing to build it
		// is a programming error.
		panic(err)
	}
	return l
}

// layoutFile is the JSON shape accepted by LoadFile.
type layoutFile struct {
	Rows     []RowSpec       `json:"rows"`
	Sections []VisualSection `json:"visual_sections"`
}

// LoadFile reads a layout definition from a JSON file.  It is used when the
// LAYOUT_PATH environment variable points at a custom hall description.
// Malformed files fail here, at startup, never at booking time.
func LoadFile(path string) (*SeatLayout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("layout: read %s: %w", path, err)
	}
	var f layoutFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("layout: parse %s: %w", path, err)
	}
	return New(f.Rows, f.Sections)
}
