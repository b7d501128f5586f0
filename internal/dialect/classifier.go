package dialect

// Classification is the result of scoring evidence for a file.
type Classification struct {
	Kind            Kind
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
}

// Classifier scores evidence and chooses a dominant language.
// Ties resolve to C++ since a C++ compiler accepts most C headers.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Kind: Unknown}
	}

	var scores [kindCount]int
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 {
			continue
		}
		if h.Dialect <= Unknown || h.Dialect >= kindCount {
			continue
		}
		scores[h.Dialect] += h.Score
		total += h.Score
	}

	best, runner := CPP, C
	if scores[C] > scores[CPP] {
		best, runner = C, CPP
	}
	if scores[best] == 0 {
		return Classification{Kind: Unknown, ObservedSignals: observed}
	}

	conf := 0.0
	if total > 0 {
		conf = float64(scores[best]) / float64(total)
	}

	return Classification{
		Kind:            best,
		Score:           scores[best],
		TotalScore:      total,
		Confidence:      conf,
		RunnerUp:        runner,
		RunnerUpScore:   scores[runner],
		ObservedSignals: observed,
	}
}
