package kattis

import (
	"github.com/RussellDash332/autokattis/lib/textutil"
)

// submissionScore is the primary ordering key of the best-submission
// reduction: the explicit score when the problem reports one, otherwise the
// passed/full test-case ratio.
func submissionScore(s Submission) float64 {
	if s.Score != nil {
		return *s.Score
	}
	if s.TestCaseFull == 0 {
		return 0
	}
	return float64(s.TestCasePassed) / float64(s.TestCaseFull)
}

// betterSubmission picks the submission to retain for a problem: higher
// score, then more passed test cases, then faster runtime (exceeded runtimes
// compare as worst-case). Ties keep the already retained record, so arrival
// order cannot flip the outcome within a fetch.
func betterSubmission(retained, candidate Submission) Submission {
	rs, cs := submissionScore(retained), submissionScore(candidate)
	if rs != cs {
		if rs > cs {
			return retained
		}
		return candidate
	}

	if retained.TestCasePassed != candidate.TestCasePassed {
		if retained.TestCasePassed > candidate.TestCasePassed {
			return retained
		}
		return candidate
	}

	rr, cr := textutil.RuntimeSeconds(retained.Runtime), textutil.RuntimeSeconds(candidate.Runtime)
	if cr < rr {
		return candidate
	}
	return retained
}

// reduceBest applies the comparator as records stream in, holding at most
// one retained record per key.
type reduceBest struct {
	best map[string]Submission
}

func newReduceBest() *reduceBest {
	return &reduceBest{best: map[string]Submission{}}
}

func (r *reduceBest) Add(s Submission) {
	if prev, ok := r.best[s.ID]; ok {
		r.best[s.ID] = betterSubmission(prev, s)
		return
	}
	r.best[s.ID] = s
}

func (r *reduceBest) All() []Submission {
	out := make([]Submission, 0, len(r.best))
	for _, s := range r.best {
		out = append(out, s)
	}
	return out
}
