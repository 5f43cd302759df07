package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/medtrack/internal/application/dto"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		in       dto.PageRequest
		expected dto.PageRequest
		offset   int
	}{
		{"vacío usa valores por defecto", dto.PageRequest{}, dto.PageRequest{Page: 1, Limit: dto.DefaultPageLimit}, 0},
		{"límite acotado", dto.PageRequest{Page: 2, Limit: 500}, dto.PageRequest{Page: 2, Limit: dto.MaxPageLimit}, 100},
		{"página negativa", dto.PageRequest{Page: -3, Limit: 5}, dto.PageRequest{Page: 1, Limit: 5}, 0},
		{"tercera página", dto.PageRequest{Page: 3, Limit: 10}, dto.PageRequest{Page: 3, Limit: 10}, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.offset, got.Offset())
		})
	}
}
