package hash

import "testing"

// performance benchmark
func BenchmarkHash(b *testing.B) {
	n := uint32(0)
	s := uint32(0)
	for i := 0; i < b.N; i++ {
		n = Hash(n, s, uint32(i)|1)
		s++
	}
}

func TestHashRange(t *testing.T) {
	for _, max := range []uint32{1, 2, 3, 10, 1 << 16, 0xFFFFFFFF} {
		for n := uint32(0); n < 1000; n++ {
			if out := Hash(n*2654435761, n, max); out >= max {
				t.Fatalf("Hash(%d, %d, %d) == %d (output bigger or equal than max)", n*2654435761, n, max, out)
			}
		}
	}
	if Hash(12345, 678, 0) != 0 {
		t.Fatalf("max=0 should be 0")
	}
}

func TestChain(t *testing.T) {
	program := [][2]uint32{{7, 100}, {9, 40}, {3, 20}}
	want := Hash(Hash(Hash(5, 7, 100), 9, 60), 3, 40)
	if got := Chain(5, program); got != want {
		t.Errorf("Chain: got %d, want %d", got, want)
	}
	if Chain(5, nil) != 5 {
		t.Errorf("empty program should pass the input through")
	}
}

// sanity check fuzz
func FuzzHash(f *testing.F) {
	f.Add(uint32(0), uint32(0), uint32(0))
	f.Fuzz(func(t *testing.T, n, s, max uint32) {
		out := Hash(n, s, max)
		if max == 0 && out != 0 {
			t.Errorf("Hard error: Hash(%d, %d, 0) == %d (max=0 should be 0)", n, s, out)
		}
		if max > 0 && out >= max {
			t.Errorf("Hard error: Hash(%d, %d, %d) == %d (output bigger or equal than max)", n, s, max, out)
		}
	})
}
