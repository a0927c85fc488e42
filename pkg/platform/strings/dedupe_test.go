package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   []string
	}{
		{
			name:   "clean input passes through",
			values: []string{"broker-1:9092", "broker-2:9092"},
			want:   []string{"broker-1:9092", "broker-2:9092"},
		},
		{
			name:   "whitespace trimmed, empties dropped",
			values: []string{"  broker-1:9092 ", "", "   "},
			want:   []string{"broker-1:9092"},
		},
		{
			name:   "first occurrence wins",
			values: []string{"b", "a", " b", "a"},
			want:   []string{"b", "a"},
		},
		{
			name:   "case is significant",
			values: []string{"Broker", "broker"},
			want:   []string{"Broker", "broker"},
		},
		{
			name:   "nil stays nil",
			values: nil,
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DedupeAndTrim(tt.values))
		})
	}
}
