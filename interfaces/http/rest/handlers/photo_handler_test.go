package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePeople(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"Ada, Grace ,, Lin", []string{"Ada", "Grace", "Lin"}},
		{`["Ada","Grace"]`, []string{"Ada", "Grace"}},
		{`[Ada, "Grace"`, []string{"Ada", "Grace"}},
		{`[]`, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parsePeople(tt.raw), tt.raw)
	}
}
