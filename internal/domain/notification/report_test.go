package notification

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchReport_Failures(t *testing.T) {
	r := &DispatchReport{
		Targeted:  3,
		Succeeded: 1,
		Failures: []WriteFailure{
			{RecipientID: "a2", Err: errors.New("timeout")},
			{RecipientID: "a3", Err: errors.New("conn reset")},
		},
	}

	assert.Equal(t, 2, r.Failed())
	assert.Equal(t, []string{"a2", "a3"}, r.FailedRecipients())
}

func TestDispatchReport_Empty(t *testing.T) {
	r := &DispatchReport{Status: DispatchNoRecipients}

	assert.Equal(t, 0, r.Failed())
	assert.Empty(t, r.FailedRecipients())
}
