package service

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Whole Milk", "dairy"},
		{"Granny Smith Apple", "produce"},
		{"Chicken Thighs", "meat"},
		{"Sourdough Bread", "pantry"},
		{"Tortilla Chips", "snacks"},
		{"Sparkling Water", "beverages"},
		{"Ice Cream Sandwiches", "frozen"},
		{"Dish Soap", "household"},
		{"Xyzzy", "misc"},
		{"", "misc"},
		// Priority order: "apple juice" contains both an apple and a juice
		// keyword; produce is checked first.
		{"Apple Juice", "produce"},
	}
	for _, tt := range tests {
		if got := Categorize(tt.name); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	if got := Categorize("CHEDDAR CHEESE"); got != "dairy" {
		t.Errorf("Categorize(CHEDDAR CHEESE) = %q, want dairy", got)
	}
	// Same input always yields the same category.
	for i := 0; i < 5; i++ {
		if got := Categorize("cheddar cheese"); got != "dairy" {
			t.Fatalf("run %d: got %q, want dairy", i, got)
		}
	}
}
