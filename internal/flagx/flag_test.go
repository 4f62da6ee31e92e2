package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://x", "-unknown", "y"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://x"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-other=z"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "flag followed by another flag",
			args:    []string{"-l", "-a", "http://x"},
			allowed: []string{"-l", "-a"},
			want:    []string{"-l", "-a", "http://x"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "x"},
			allowed: nil,
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "conf.json", ConfigFileFlag([]string{"-c", "conf.json"}))
	assert.Equal(t, "conf.json", ConfigFileFlag([]string{"-config=conf.json"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-x", "y"}))
	assert.Equal(t, "", ConfigFileFlag(nil))
}
