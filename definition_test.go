package weave

import "testing"

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		def  WeaveDefinition
		want bool
	}{
		{"zero value", WeaveDefinition{}, true},
		{"no rows", WeaveDefinition{Threading: [][]bool{}, WarpColors: []string{"a"}, WeftColors: []string{"b"}}, true},
		{"empty row", WeaveDefinition{Threading: [][]bool{{}}, WarpColors: []string{"a"}, WeftColors: []string{"b"}}, true},
		{"ragged", WeaveDefinition{Threading: [][]bool{{true, false}, {true}}, WarpColors: []string{"a"}, WeftColors: []string{"b"}}, true},
		{"no warp colors", WeaveDefinition{Threading: [][]bool{{true}}, WeftColors: []string{"b"}}, true},
		{"no weft colors", WeaveDefinition{Threading: [][]bool{{true}}, WarpColors: []string{"a"}}, true},
		{"valid", WeaveDefinition{Threading: [][]bool{{true}}, WarpColors: []string{"a"}, WeftColors: []string{"b"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.def.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	def := WeaveDefinition{
		Threading:  [][]bool{{true, false, true}, {false, true, false}},
		WarpColors: []string{"a"},
		WeftColors: []string{"b"},
	}
	rows, cols := def.Size()
	if rows != 2 || cols != 3 {
		t.Errorf("Size() = (%d, %d), want (2, 3)", rows, cols)
	}
}
