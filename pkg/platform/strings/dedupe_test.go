package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single origin", "http://localhost:4200", []string{"http://localhost:4200"}},
		{"trims entries", " http://a , http://b ", []string{"http://a", "http://b"}},
		{"drops empties", "http://a,,  ,http://b", []string{"http://a", "http://b"}},
		{"drops repeats keeping first position", "kafka-1:9092,kafka-2:9092,kafka-1:9092", []string{"kafka-1:9092", "kafka-2:9092"}},
		{"only separators", " , ,", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{}))
	assert.Equal(t, []string{"foo", "bar"}, DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  ", "bar"}))
}
