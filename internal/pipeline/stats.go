package pipeline

// RunStats tracks aggregate counters and byte totals across a directory run.
// A dry run counts planned files as converted.
type RunStats struct {
	Total            int
	Current          int
	Converted        int
	TotalInputBytes  int64
	TotalOutputBytes int64
}

// Failed is every eligible file that did not convert.
func (s *RunStats) Failed() int {
	return s.Total - s.Converted
}

// SizeDelta returns output bytes minus input bytes over converted files.
// Positive means the PNGs are larger than their sources.
func (s *RunStats) SizeDelta() int64 {
	return s.TotalOutputBytes - s.TotalInputBytes
}
