package interactive

import (
	"context"
	"testing"

	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzySearch(t *testing.T) {
	items := []string{"jpeg", "tokenSale", "jpegStaking", "dao"}
	search := createFuzzySearchFunc(items)

	tests := []struct {
		input string
		want  []bool
	}{
		{input: "", want: []bool{true, true, true, true}},
		{input: "JPEG", want: []bool{true, false, true, false}},
		{input: "tks", want: []bool{false, true, false, false}},
		{input: "xyz", want: []bool{false, false, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			for i := range items {
				assert.Equal(t, tt.want[i], search(tt.input, i), "item %s", items[i])
			}
		})
	}
}

func TestSelectorAdapter_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	ctx := context.Background()

	step, err := s.SelectStep(ctx, []string{"jpeg"}, "Select step")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", step)

	_, err = s.SelectStep(ctx, []string{"jpeg", "dao"}, "Select step")
	assert.ErrorIs(t, err, ErrNonInteractive)

	_, err = s.SelectStep(ctx, nil, "Select step")
	assert.Error(t, err)

	ok, err := s.Confirm(ctx, "Transfer ownership")
	assert.ErrorIs(t, err, ErrNonInteractive)
	assert.False(t, ok)
}
