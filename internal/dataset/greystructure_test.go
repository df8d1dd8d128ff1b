package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGreyStructure(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		isGrey      bool
		fallback    bool
	}{
		{"grey structure in title", "Grey Structure available", "", true, false},
		{"finished listing", "Fully finished, move-in ready", "", false, false},
		{"gray spelling", "", "Gray structure house on 240 sq yd", true, false},
		{"greywork variant", "Greywork complete", "", true, false},
		{"grey-work hyphenated", "grey-work only", "", true, false},
		{"core and shell", "", "core & shell condition", true, false},
		{"shell only", "Shell only property", "", true, false},
		{"structure only", "", "selling structure only", true, false},
		{"semi-finished", "Semi-finished bungalow", "", true, false},
		{"semi finished spaced", "semi finished unit", "", true, false},
		{"unfinished", "", "unfinished house, bring your own fittings", true, false},
		{"without finishing", "House without finishing", "", true, false},
		{"case insensitive", "GREY STRUCTURE", "", true, false},
		{"no text columns", "", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ClassifyGreyStructure(tt.title, tt.description)
			assert.Equal(t, tt.isGrey, res.IsGrey)
			assert.Equal(t, tt.fallback, res.Fallback)
		})
	}
}
