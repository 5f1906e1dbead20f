package buffer

import "testing"

func TestNewViewSharesMemory(t *testing.T) {
	left := []float64{1, 2, 3}
	right := []float64{4, 5, 6}

	v := NewView([][]float64{left, right})
	if v.Samples() != 3 {
		t.Fatalf("Samples() = %d, want 3", v.Samples())
	}
	if v.NumChannels() != 2 {
		t.Fatalf("NumChannels() = %d, want 2", v.NumChannels())
	}

	v.Channel(1)[0] = 99
	if right[0] != 99 {
		t.Fatal("View should share host memory")
	}
}

func TestNewViewEmpty(t *testing.T) {
	v := NewView(nil)
	if v.Samples() != 0 || v.NumChannels() != 0 {
		t.Fatalf("empty view: samples=%d channels=%d", v.Samples(), v.NumChannels())
	}

	var zero View
	if zero.Samples() != 0 || zero.NumChannels() != 0 {
		t.Fatal("zero View should be empty")
	}
}

func TestNewViewPanicsOnUnequalLengths(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unequal channel lengths")
		}
	}()

	NewView([][]float64{make([]float64, 4), make([]float64, 3)})
}

func TestViewChannelsAllowsInPlaceWrites(t *testing.T) {
	data := [][]float64{{1, 1}, {2, 2}}
	v := NewView(data)

	for _, samples := range v.Channels() {
		for i := range samples {
			samples[i] *= 10
		}
	}

	if data[0][1] != 10 || data[1][0] != 20 {
		t.Fatalf("unexpected data after in-place write: %v", data)
	}
}

func TestViewInterleave(t *testing.T) {
	v := NewView([][]float64{{1, 2, 3}, {-1, -2, -3}})

	dst := make([]float64, 6)
	if n := v.Interleave(dst); n != 3 {
		t.Fatalf("Interleave = %d, want 3", n)
	}
	for i, want := range []float64{1, -1, 2, -2, 3, -3} {
		if dst[i] != want {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want)
		}
	}

	short := make([]float64, 5)
	if n := v.Interleave(short); n != 2 {
		t.Fatalf("Interleave into short dst = %d, want 2", n)
	}

	if n := (View{}).Interleave(dst); n != 0 {
		t.Fatalf("empty view Interleave = %d, want 0", n)
	}
}
