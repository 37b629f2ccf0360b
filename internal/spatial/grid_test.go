package spatial

import "testing"

func TestManhattanDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want int
	}{
		{"same cell", Coord{0, 0}, Coord{0, 0}, 0},
		{"corner to corner", Coord{0, 0}, Coord{3, 3}, 6},
		{"negative direction", Coord{3, 1}, Coord{0, 0}, 4},
		{"single axis", Coord{2, 5}, Coord{2, 1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ManhattanDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("ManhattanDistance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name     string
		from, to Coord
		want     Direction
	}{
		{"northward", Coord{1, 1}, Coord{1, 2}, North},
		{"southward", Coord{1, 2}, Coord{1, 1}, South},
		{"eastward", Coord{1, 1}, Coord{2, 1}, East},
		{"westward", Coord{2, 1}, Coord{1, 1}, West},
		{"no movement falls back north", Coord{1, 1}, Coord{1, 1}, North},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Heading(tt.from, tt.to); got != tt.want {
				t.Errorf("Heading(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions() {
		parsed, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q) returned error: %v", d.String(), err)
		}
		if parsed != d {
			t.Errorf("ParseDirection(%q) = %v, want %v", d.String(), parsed, d)
		}
	}

	if _, err := ParseDirection("northeast"); err == nil {
		t.Error("Expected error for unknown direction name")
	}
}

func TestDirectionAxis(t *testing.T) {
	if !North.IsNorthSouth() || !South.IsNorthSouth() {
		t.Error("North and South must lie on the north-south axis")
	}
	if East.IsNorthSouth() || West.IsNorthSouth() {
		t.Error("East and West must not lie on the north-south axis")
	}
}
