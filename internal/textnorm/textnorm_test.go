package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"accents and case", "ÁÇÃO", "acao"},
		{"mixed phrase", "Construção de Ponte", "construcao de ponte"},
		{"already ascii", "pregao eletronico", "pregao eletronico"},
		{"empty", "", ""},
		{"non-latin dropped", "obra 施工 civil", "obra  civil"},
		{"cedilla and tilde", "licitação", "licitacao"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "ÁÇÃO", "Construção de PONTE de concreto", "já normalizado", "plain text 123"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}
