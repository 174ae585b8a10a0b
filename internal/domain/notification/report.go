package notification

import "time"

type DispatchStatus string

const (
	DispatchCompleted      DispatchStatus = "completed"
	DispatchPartialFailure DispatchStatus = "partial_failure"
	DispatchNoRecipients   DispatchStatus = "no_recipients"
)

// WriteFailure records one recipient whose notification could not be written.
type WriteFailure struct {
	RecipientID string
	Err         error
}

// DispatchReport summarises one fan-out for one order.
type DispatchReport struct {
	OrderID   string
	Status    DispatchStatus
	Targeted  int
	Succeeded int
	Failures  []WriteFailure
	Records   []*Record
	Duration  time.Duration
}

// Failed returns the number of failed writes.
func (r *DispatchReport) Failed() int {
	return len(r.Failures)
}

// FailedRecipients returns the ids of recipients whose write failed.
func (r *DispatchReport) FailedRecipients() []string {
	ids := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.RecipientID)
	}
	return ids
}
