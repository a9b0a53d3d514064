package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   int64
		wantOK bool
	}{
		{"Int", 7, 7, true},
		{"Int64", int64(-3), -3, true},
		{"Uint8", uint8(9), 9, true},
		{"WholeFloat", float64(12), 12, true},
		{"FractionalFloat", 1.5, 0, false},
		{"NumericString", "7", 7, true},
		{"PaddedString", " 42 ", 42, true},
		{"Bytes", []byte("15"), 15, true},
		{"Word", "admin", 0, false},
		{"Empty", "", 0, false},
		{"Nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToInt64(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("100"))
	assert.False(t, IsNumeric("1e3"))
	assert.False(t, IsNumeric("abc"))
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool("TRUE"))
	assert.True(t, ToBool(1))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(nil))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "12", ToString(12))
	assert.Equal(t, "", ToString(nil))
}
