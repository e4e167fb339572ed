package outfit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBandBoundaries(t *testing.T) {
	require.Equal(t, "hot", SelectBand(28).Key)
	require.Equal(t, "hot", SelectBand(35).Key)
	require.Equal(t, "warm", SelectBand(27.9).Key)
	require.Equal(t, "very-cold", SelectBand(5).Key)
	require.Equal(t, "freezing", SelectBand(4.9).Key)
	require.Equal(t, "freezing", SelectBand(-50).Key)
	require.Equal(t, "freezing", SelectBand(-273).Key)
	require.Equal(t, "freezing", SelectBand(math.Inf(-1)).Key)
}

func TestSelectBandReturnsBandAtOrBelowTemperature(t *testing.T) {
	all := Bands()
	floor := all[len(all)-1]
	for temp := -60.0; temp <= 45; temp += 0.25 {
		band := SelectBand(temp)
		if band.Key == floor.Key {
			continue
		}
		require.LessOrEqual(t, band.MinThreshold, temp)
	}
}

func TestBandsDescendingOrder(t *testing.T) {
	all := Bands()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		require.Greater(t, all[i-1].MinThreshold, all[i].MinThreshold)
	}
	all[0].Label = "mutated"
	require.NotEqual(t, "mutated", Bands()[0].Label)
}
