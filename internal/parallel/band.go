package parallel

// MinBandHeight is the smallest band worth a goroutine.
const MinBandHeight = 16

// Band is the half-open row range [Y0, Y1) of a target.
type Band struct {
	Y0, Y1 int
}

// Height returns the number of rows in the band.
func (b Band) Height() int { return b.Y1 - b.Y0 }

// Contains reports whether row y lies in the band.
func (b Band) Contains(y int) bool { return y >= b.Y0 && y < b.Y1 }

// SplitRows cuts height rows into at most n contiguous bands of nearly
// equal size, none shorter than MinBandHeight unless height itself is.
// The bands cover [0, height) exactly, in order.
func SplitRows(height, n int) []Band {
	if height <= 0 {
		return nil
	}
	n = max(1, min(n, height/MinBandHeight))
	bands := make([]Band, n)
	y := 0
	for i := range bands {
		rows := (height - y) / (n - i)
		bands[i] = Band{Y0: y, Y1: y + rows}
		y += rows
	}
	return bands
}

// ForBands runs fn once per band of height rows. With a nil or closed
// pool, or a target too short to split, fn runs once on the calling
// goroutine with the full range.
func (p *WorkerPool) ForBands(height int, fn func(Band)) {
	if p == nil || !p.IsRunning() {
		fn(Band{0, height})
		return
	}
	bands := SplitRows(height, p.workers)
	if len(bands) <= 1 {
		fn(Band{0, height})
		return
	}
	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
