package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_FlagPrefix(t *testing.T) {
	s := New().Put("k", 1).Put("seed", 42)

	assert.Equal(t, []string{"-k", "1", "--seed", "42"}, s.Tokens())
}

func TestTokens_EmptySet(t *testing.T) {
	assert.Equal(t, []string{}, New().Tokens())
}

func TestTokens_Nested(t *testing.T) {
	s := New().
		Put("d", New().Put("w", 5).Put("metric", "sq")).
		Put("k", 1)

	assert.Equal(t, []string{"-d", "{", "-w", "5", "--metric", "sq", "}", "-k", "1"}, s.Tokens())
}

func TestTokens_Escaping(t *testing.T) {
	s := New().Put("v", "-x", "{", "}", `\raw`, "-5", "--")

	tokens := s.Tokens()
	assert.Equal(t, []string{"-v", `\-x`, `\{`, `\}`, `\\raw`, "-5", "--"}, tokens)

	parsed, err := Parse(tokens)
	require.NoError(t, err)
	values, _ := parsed.Get("v")
	assert.Equal(t, []any{"-x", "{", "}", `\raw`, "-5", "--"}, values)
}

func TestParse_RoundTrip(t *testing.T) {
	sets := map[string]*Set{
		"empty":  New(),
		"flat":   New().Put("k", 3).Put("name", "dtw").Put("rate", 0.25),
		"multi":  New().Put("c", 1, 2, 3),
		"novals": New().Put("flag").Put("x", "y"),
		"nested": New().
			Put("ensemble", New().Put("n", 10), New().Put("n", 20).Put("d", New().Put("w", -1))).
			Put("seed", int64(7)),
		"emptychild": New().Put("child", New()),
	}

	for name, s := range sets {
		t.Run(name, func(t *testing.T) {
			parsed, err := Parse(s.Tokens())
			require.NoError(t, err)
			assert.True(t, s.Equal(parsed), "want %v got %v", s, parsed)
			assert.Equal(t, s.Names(), parsed.Names())
		})
	}
}

func TestParse_RepeatedFlagAppends(t *testing.T) {
	s, err := ParseString("-k 1 --seed 3 -k 2")
	require.NoError(t, err)

	values, _ := s.Get("k")
	assert.Equal(t, []any{"1", "2"}, values)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"value before flag", []string{"3", "-k"}},
		{"unbalanced close", []string{"-k", "}"}},
		{"unterminated nested", []string{"-d", "{", "-w", "1"}},
		{"nameless nested", []string{"{", "}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.tokens)
			assert.Error(t, err)
		})
	}
}

func TestFlag(t *testing.T) {
	assert.Equal(t, "-k", Flag("k"))
	assert.Equal(t, "--kk", Flag("kk"))
}
