package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScoped_Lookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		scoped  Scoped[string]
		profile string
		want    string
		found   bool
	}{
		{"absent", Scoped[string]{}, "dev", "", false},
		{"literal applies to every profile", Literal("x"), "anything", "x", true},
		{"profile present", ByProfile(map[string]string{"dev": "d", "prod": "p"}), "prod", "p", true},
		{"profile missing never borrows another profile", ByProfile(map[string]string{"dev": "d"}), "prod", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, found := tt.scoped.Lookup(tt.profile)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.found, found)

			want := "fallback"
			if tt.found {
				want = tt.want
			}
			assert.Equal(t, want, tt.scoped.Resolve(tt.profile, "fallback"))
		})
	}
}

func TestScoped_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	var doc struct {
		Literal Scoped[Policy]     `yaml:"literal"`
		Mapped  Scoped[Policy]     `yaml:"mapped"`
		Chain   Scoped[VaultChain] `yaml:"chain"`
		Empty   Scoped[string]     `yaml:"empty"`
		Missing Scoped[string]     `yaml:"missing"`
	}
	src := `
literal: optional
mapped:
  prod: ignore
chain:
  - provider: aws
    secret: base
empty: ~
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))

	assert.Equal(t, PolicyOptional, doc.Literal.Resolve("x", PolicyRequired))
	assert.False(t, doc.Literal.IsProfileScoped())
	assert.True(t, doc.Mapped.IsProfileScoped())
	assert.Equal(t, []string{"prod"}, doc.Mapped.Profiles())
	chain, ok := doc.Chain.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "base", chain[0].Secret)
	assert.True(t, doc.Empty.IsZero())
	assert.True(t, doc.Missing.IsZero())
}

func TestScoped_MarshalYAMLOmitsAbsent(t *testing.T) {
	t.Parallel()

	out, err := yaml.Marshal(Rule{Default: Literal("d")})
	require.NoError(t, err)
	assert.Equal(t, "default: d\n", string(out))
}
