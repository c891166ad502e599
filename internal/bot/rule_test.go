package bot

import (
	"testing"

	apperrors "github.com/garyellow/kitaku-linebot-go/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(InboundEvent, StationReader) []Message { return nil }

func TestNewTable_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rules   []Rule
		wantErr bool
	}{
		{
			name:    "empty",
			rules:   nil,
			wantErr: true,
		},
		{
			name:    "only fallback",
			rules:   []Rule{{Name: "fallback", Matcher: Always(), Build: noop}},
			wantErr: false,
		},
		{
			name: "missing terminal always",
			rules: []Rule{
				{Name: "a", Matcher: ExactText("a"), Build: noop},
			},
			wantErr: true,
		},
		{
			name: "always before the end",
			rules: []Rule{
				{Name: "early", Matcher: Always(), Build: noop},
				{Name: "fallback", Matcher: Always(), Build: noop},
			},
			wantErr: true,
		},
		{
			name: "missing name",
			rules: []Rule{
				{Matcher: ExactText("a"), Build: noop},
				{Name: "fallback", Matcher: Always(), Build: noop},
			},
			wantErr: true,
		},
		{
			name: "missing builder",
			rules: []Rule{
				{Name: "a", Matcher: ExactText("a")},
				{Name: "fallback", Matcher: Always(), Build: noop},
			},
			wantErr: true,
		},
		{
			name: "missing matcher",
			rules: []Rule{
				{Name: "a", Build: noop},
				{Name: "fallback", Matcher: Always(), Build: noop},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			table, err := NewTable(tt.rules...)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrInvalidTable)
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, table)
		})
	}
}

func TestNewTable_CopiesRules(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		{Name: "a", Matcher: ExactText("a"), Build: noop},
		{Name: "fallback", Matcher: Always(), Build: noop},
	}
	table, err := NewTable(rules...)
	require.NoError(t, err)

	rules[0].Name = "mutated"
	assert.Equal(t, []string{"a", "fallback"}, table.Names())
}

func TestDefaultTable_Order(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{RuleFarewell, RuleThanks, RuleNearbyStation, RuleFallback},
		DefaultTable().Names(),
	)
}
