package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPrecinctNames(t *testing.T) {
	names := GetPrecinctNames()
	assert.Len(t, names, len(SupportedPrecincts))
	assert.Contains(t, names, "precinct_10")
}

func TestGetPrecinctByName(t *testing.T) {
	tests := []struct {
		name     string
		precinct string
		found    bool
	}{
		{
			name:     "Known precinct",
			precinct: "precinct_10",
			found:    true,
		},
		{
			name:     "Unknown precinct",
			precinct: "precinct_99",
			found:    false,
		},
		{
			name:     "Empty name",
			precinct: "",
			found:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GetPrecinctByName(tt.precinct)
			if tt.found {
				require.NotNil(t, p)
				assert.Equal(t, tt.precinct, p.Name)
			} else {
				assert.Nil(t, p)
			}
		})
	}
}
