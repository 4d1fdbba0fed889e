package otel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestToAttribute(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected attribute.KeyValue
	}{
		{name: "bool", value: true, expected: attribute.Bool("k", true)},
		{name: "string", value: "v", expected: attribute.String("k", "v")},
		{name: "int", value: 3, expected: attribute.Int("k", 3)},
		{name: "int64", value: int64(9), expected: attribute.Int64("k", 9)},
		{name: "strings", value: []string{"a", "b"}, expected: attribute.StringSlice("k", []string{"a", "b"})},
		{name: "fallback", value: 1.5, expected: attribute.String("k", "1.5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toAttribute("k", tt.value))
		})
	}
}
