package pipeline

// Stats tracks aggregate counters across a batch run.
type Stats struct {
	Found int
	// Processed counts files converted and verified on disk.
	Processed int
	Deleted   int
	Failed    int
	// Skipped counts files whose output was missing after encoding.
	Skipped     int
	OutputBytes int64
}

// Add folds one file result into the counters.
func (s *Stats) Add(res FileResult) {
	switch res.Outcome {
	case Converted:
		s.Processed++
		s.Deleted++
		s.OutputBytes += res.OutputBytes
	case OutputMissing:
		s.Skipped++
	case Failed:
		s.Failed++
	}
}
