package hdl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/qmin/errors"
)

func TestBuildSingleLevel(t *testing.T) {
	// Four entries fit one leaf; no padding, no clocking.
	d, err := Build(EncoderSpec{ModuleSuffix: "q4", Width: 4, PrefixWidth: 3})
	require.NoError(t, err)

	require.Len(t, d.Units, 1)
	leaf := d.Units[0]
	assert.Equal(t, 0, leaf.Level)
	assert.Equal(t, 4, leaf.Entries)
	assert.Equal(t, 2, leaf.IndexWidth)
	assert.Equal(t, 3, leaf.PayloadWidth)
	assert.False(t, leaf.RegisterAfterChildren)
	assert.False(t, leaf.Clocked)
	assert.Equal(t, "argmin_l0_q4", leaf.Name)

	assert.Equal(t, 4, d.PaddedWidth)
	assert.Equal(t, 0, d.Padding())
	assert.Equal(t, 2, d.TopIndexWidth)
	assert.Equal(t, "argmin_q4", d.TopName())
	assert.Same(t, leaf, d.Root())
	assert.False(t, d.Clocked())
	assert.Equal(t, 0, d.Latency())
}

func TestBuildPadsToNextSpan(t *testing.T) {
	// Five entries need two levels: 16-entry span, 11 invalid pads,
	// and a 3-bit truncated index.
	d, err := Build(EncoderSpec{ModuleSuffix: "w5", Width: 5, PrefixWidth: 4})
	require.NoError(t, err)

	require.Len(t, d.Units, 2)
	assert.Equal(t, 16, d.PaddedWidth)
	assert.Equal(t, 11, d.Padding())
	assert.Equal(t, 3, d.TopIndexWidth)
	assert.Equal(t, "argmin_l1_w5", d.Root().Name)
	assert.Equal(t, 16, d.Root().Entries)
	assert.Equal(t, 4, d.Root().IndexWidth)
}

func TestBuildPipelinePlacement(t *testing.T) {
	d, err := Build(EncoderSpec{
		ModuleSuffix: "pkt",
		Width:        20,
		PrefixWidth:  8,
		MaxCombDepth: 2,
	})
	require.NoError(t, err)

	require.Len(t, d.Units, 3)
	assert.False(t, d.Units[0].RegisterAfterChildren)
	assert.True(t, d.Units[1].RegisterAfterChildren)
	assert.False(t, d.Units[2].RegisterAfterChildren)

	// Clocking starts at the first cut and sticks upward.
	assert.False(t, d.Units[0].Clocked)
	assert.True(t, d.Units[1].Clocked)
	assert.True(t, d.Units[2].Clocked)
	assert.True(t, d.Clocked())

	assert.Equal(t, 1, d.Latency())
}

func TestBuildUnboundedStaysCombinational(t *testing.T) {
	d, err := Build(EncoderSpec{ModuleSuffix: "deep", Width: 256, PrefixWidth: 16})
	require.NoError(t, err)

	require.Len(t, d.Units, 4)
	for _, u := range d.Units {
		assert.False(t, u.RegisterAfterChildren, "level %d", u.Level)
		assert.False(t, u.Clocked, "level %d", u.Level)
	}
	assert.False(t, d.Clocked())
	assert.Equal(t, 0, d.Latency())
}

func TestLatencyCountsEveryStage(t *testing.T) {
	tests := []struct {
		name string
		spec EncoderSpec
		want int
	}{
		{
			name: "combinational",
			spec: EncoderSpec{ModuleSuffix: "a", Width: 64, PrefixWidth: 4},
			want: 0,
		},
		{
			name: "every level cut",
			spec: EncoderSpec{ModuleSuffix: "b", Width: 65, PrefixWidth: 4, MaxCombDepth: 1},
			want: 3,
		},
		{
			name: "every other level cut",
			spec: EncoderSpec{ModuleSuffix: "c", Width: 65, PrefixWidth: 4, MaxCombDepth: 2},
			want: 2,
		},
		{
			name: "input and output stages only",
			spec: EncoderSpec{
				ModuleSuffix: "d", Width: 64, PrefixWidth: 4,
				RegisterInputs: true, RegisterOutputs: true,
			},
			want: 2,
		},
		{
			name: "all stages together",
			spec: EncoderSpec{
				ModuleSuffix: "e", Width: 65, PrefixWidth: 4, MaxCombDepth: 2,
				RegisterInputs: true, RegisterOutputs: true,
			},
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Build(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Latency())

			cuts := 0
			for _, u := range d.Units {
				if u.RegisterAfterChildren {
					cuts++
				}
			}
			assert.Equal(t, cuts, CutCount(len(d.Units), tt.spec.MaxCombDepth))
		})
	}
}

func TestBuildRegisterStagesForceClocking(t *testing.T) {
	d, err := Build(EncoderSpec{
		ModuleSuffix: "ri", Width: 16, PrefixWidth: 2, RegisterInputs: true,
	})
	require.NoError(t, err)

	// The stage lives in the top module; the reduction units stay
	// combinational.
	for _, u := range d.Units {
		assert.False(t, u.Clocked)
	}
	assert.True(t, d.Clocked())
	assert.Equal(t, 1, d.Latency())
}

func TestBuildRejectsInvalidSpec(t *testing.T) {
	_, err := Build(EncoderSpec{ModuleSuffix: "x", Width: 1, PrefixWidth: 4})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidWidth))
}
