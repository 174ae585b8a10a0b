package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_ShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"abc12345-6789", "abc12345"},
		{"abc12345", "abc12345"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Event{ID: tt.id}.ShortID(), tt.id)
	}
}
