package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"trims and collapses whitespace", "  jane   doe  ", "Jane Doe"},
		{"capitalises word initials only", "jane mcDONALD", "Jane McDONALD"},
		{"honorific keeps a single capital", "MR john smith", "Mr John Smith"},
		{"upper honorific body is lowered", "MRS jane doe", "Mrs Jane Doe"},
		{"honorific alone is a name", "Miss", "Miss"},
		{"hyphenated segments", "anne-marie o'brien", "Anne-Marie O'Brien"},
		{"already normalized", "Mrs Jane Doe", "Mrs Jane Doe"},
		{"blank input", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeName(tc.input))
		})
	}
}

func TestNormalizeNameIdempotent(t *testing.T) {
	inputs := []string{"  sir  ISAAC newton ", "anne-marie", "DR who", "jane   doe"}
	for _, input := range inputs {
		once := NormalizeName(input)
		assert.Equal(t, once, NormalizeName(once), "normalizing %q twice changed the result", input)
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", Initials("Jane Doe"))
	assert.Equal(t, "MJS", Initials("Mr John Smith"))
	assert.Equal(t, "A", Initials("Alice"))
	assert.Equal(t, "", Initials(""))
}
