package minifier

import "fmt"

// Stats compares the size of a source with its minified form
type Stats struct {
	Original int
	Minified int
}

// Measure returns the byte sizes of before and after
func Measure(before, after string) Stats {
	return Stats{Original: len(before), Minified: len(after)}
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Original += other.Original
	s.Minified += other.Minified
}

// Saved returns the number of bytes removed
func (s Stats) Saved() int {
	return s.Original - s.Minified
}

// Ratio returns the minified size as a fraction of the original, 1 for empty input
func (s Stats) Ratio() float64 {
	if s.Original == 0 {
		return 1
	}
	return float64(s.Minified) / float64(s.Original)
}

func (s Stats) String() string {
	return fmt.Sprintf("%d → %d bytes (%.1f%% saved)", s.Original, s.Minified, (1-s.Ratio())*100)
}
