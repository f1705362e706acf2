package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ----------------------------------------------------------------------------
// ParseValue Tests
// ----------------------------------------------------------------------------

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"empty is null", "", nil},
		{"lower true", "true", true},
		{"upper true", "TRUE", true},
		{"lower false", "false", false},
		{"upper false", "FALSE", false},
		{"mixed case stays text", "True", "True"},
		{"integer", "30", 30.0},
		{"negative decimal", "-1.5", -1.5},
		{"leading decimal point", ".5", 0.5},
		{"trailing decimal point", "99.", 99.0},
		{"scientific", "1e3", 1000.0},
		{"padded number", " 42 ", 42.0},
		{"whitespace only stays text", "   ", "   "},
		{"text", "Alice", "Alice"},
		{"currency stays text", "$5", "$5"},
		{"thousands separator stays text", "1,000", "1,000"},
		{"hex stays text", "0x1F", "0x1F"},
		{"beyond safe integer stays text", "12345678901234567890", "12345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseValue(tt.input))
		})
	}
}

// ----------------------------------------------------------------------------
// Display Tests
// ----------------------------------------------------------------------------

func TestDisplay(t *testing.T) {
	tests := []struct {
		name  string
		input Value
		want  string
	}{
		{"nil", nil, ""},
		{"string", "hi", "hi"},
		{"whole number", 30.0, "30"},
		{"fraction", 2.5, "2.5"},
		{"large number without exponent", 1e15, "1000000000000000"},
		{"bool", true, "true"},
		{"int", 7, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Display(tt.input))
		})
	}
}

func TestDisplayRoundTripsParseValue(t *testing.T) {
	for _, s := range []string{"", "30", "-1.5", "true", "FALSE", "Alice"} {
		got := Display(ParseValue(s))
		if s == "FALSE" {
			assert.Equal(t, "false", got)
			continue
		}
		assert.Equal(t, s, got)
	}
}

// ----------------------------------------------------------------------------
// toNumber Tests
// ----------------------------------------------------------------------------

func TestToNumber(t *testing.T) {
	tests := []struct {
		input  Value
		want   float64
		wantOK bool
	}{
		{nil, 0, true},
		{true, 1, true},
		{false, 0, true},
		{3.5, 3.5, true},
		{"", 0, true},
		{" 12 ", 12, true},
		{"+4", 4, true},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := toNumber(tt.input)
		assert.Equal(t, tt.wantOK, ok, "toNumber(%#v) ok", tt.input)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "toNumber(%#v)", tt.input)
		}
	}
}
