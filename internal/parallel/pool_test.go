package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewWorkerPoolDefaults(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()
	if p.Workers() < 1 {
		t.Errorf("Workers() = %d, want >= 1", p.Workers())
	}
	if !p.IsRunning() {
		t.Error("new pool should be running")
	}
}

func TestExecuteAll(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var n atomic.Int32
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { n.Add(1) }
	}
	p.ExecuteAll(work)
	if got := n.Load(); got != 100 {
		t.Errorf("executed %d items, want 100", got)
	}
}

func TestExecuteAllAfterClose(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()

	ran := 0
	p.ExecuteAll([]func(){func() { ran++ }, func() { ran++ }})
	if ran != 2 {
		t.Errorf("closed pool ran %d items, want 2 inline", ran)
	}
	if p.IsRunning() {
		t.Error("IsRunning() = true after Close")
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name          string
		height, n     int
		wantBands     int
		wantMaxHeight int
	}{
		{"empty", 0, 4, 0, 0},
		{"short", 10, 4, 1, 10},
		{"even", 64, 4, 4, 16},
		{"uneven", 100, 3, 3, 34},
		{"more workers than rows", 40, 16, 2, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := SplitRows(tt.height, tt.n)
			if len(bands) != tt.wantBands {
				t.Fatalf("SplitRows(%d, %d) = %d bands, want %d", tt.height, tt.n, len(bands), tt.wantBands)
			}
			y := 0
			for _, b := range bands {
				if b.Y0 != y {
					t.Errorf("band %+v does not start at %d", b, y)
				}
				if b.Height() > tt.wantMaxHeight {
					t.Errorf("band %+v taller than %d", b, tt.wantMaxHeight)
				}
				y = b.Y1
			}
			if y != tt.height {
				t.Errorf("bands end at %d, want %d", y, tt.height)
			}
		})
	}
}

func TestForBandsCoversEveryRow(t *testing.T) {
	for _, p := range []*WorkerPool{nil, NewWorkerPool(4)} {
		rows := make([]int, 200)
		var mu sync.Mutex
		p.ForBands(len(rows), func(b Band) {
			mu.Lock()
			defer mu.Unlock()
			for y := b.Y0; y < b.Y1; y++ {
				rows[y]++
			}
		})
		for y, n := range rows {
			if n != 1 {
				t.Fatalf("row %d visited %d times", y, n)
			}
		}
		if p != nil {
			p.Close()
		}
	}
}

func TestBandContains(t *testing.T) {
	b := Band{Y0: 4, Y1: 8}
	if !b.Contains(4) || !b.Contains(7) || b.Contains(8) || b.Contains(3) {
		t.Errorf("Contains mismatch for %+v", b)
	}
}
