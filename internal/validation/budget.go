package validation

import (
	"github.com/JonMunkholm/regvalidate/internal/rules"
	"github.com/JonMunkholm/regvalidate/internal/schema"
)

// run accumulates the errors of one validation run against a budget.
type run struct {
	limit int
	used  int
	errs  []rules.ValidationError
}

func newRun(limit int) *run {
	return &run{limit: limit, errs: make([]rules.ValidationError, 0)}
}

func (r *run) exhausted() bool { return r.used >= r.limit }

// record appends a row error, truncating its column errors to the remaining
// budget. It reports false once the budget is exhausted.
func (r *run) record(row schema.Row, ce []rules.ColumnError) bool {
	if len(ce) == 0 {
		return !r.exhausted()
	}
	if r.exhausted() {
		return false
	}
	if remaining := r.limit - r.used; len(ce) > remaining {
		ce = ce[:remaining]
	}
	r.used += len(ce)
	r.errs = append(r.errs, rules.NewValidationError(row, ce...))
	return !r.exhausted()
}

// recordAll records pending row errors in order until the budget runs out.
func (r *run) recordAll(pending []pendingError) {
	for _, p := range pending {
		if !r.record(p.row, p.errs) {
			return
		}
	}
}

type pendingError struct {
	row  schema.Row
	errs []rules.ColumnError
}
