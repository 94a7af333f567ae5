package placement

import "testing"

func TestOffsetsRowWrap(t *testing.T) {
	offsets := Offsets(7)
	if len(offsets) != 7 {
		t.Fatalf("len = %d, want 7", len(offsets))
	}

	want := []Offset{
		{0, 0}, {2, 0}, {4, 0}, {6, 0}, {8, 0},
		{0, 2}, {2, 2},
	}
	for i, offset := range offsets {
		if offset != want[i] {
			t.Errorf("offset[%d] = %+v, want %+v", i, offset, want[i])
		}
	}
}

func TestOffsetsEmpty(t *testing.T) {
	if got := Offsets(0); got != nil {
		t.Fatalf("Offsets(0) = %v, want nil", got)
	}
	if got := Offsets(-3); got != nil {
		t.Fatalf("Offsets(-3) = %v, want nil", got)
	}
}

func TestPlaceFreeForm(t *testing.T) {
	points := Place(Point{X: 100, Y: 200}, 50, false, 6)
	want := []Point{
		{100, 200}, {200, 200}, {300, 200}, {400, 200}, {500, 200},
		{100, 300},
	}
	for i, point := range points {
		if point != want[i] {
			t.Errorf("point[%d] = %+v, want %+v", i, point, want[i])
		}
	}
}

func TestPlaceSnapsToGrid(t *testing.T) {
	points := Place(Point{X: 130, Y: 220}, 50, true, 2)
	want := []Point{
		{100, 200}, {200, 200},
	}
	for i, point := range points {
		if point != want[i] {
			t.Errorf("point[%d] = %+v, want %+v", i, point, want[i])
		}
	}
}

func TestPlaceIsDeterministic(t *testing.T) {
	first := Place(Point{X: 10, Y: 20}, 25, true, 11)
	second := Place(Point{X: 10, Y: 20}, 25, true, 11)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point[%d] diverged: %+v vs %+v", i, first[i], second[i])
		}
	}
}
