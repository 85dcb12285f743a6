package kenwood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantizeFrequency(t *testing.T) {
	step5, _ := TuningStepIndex(5000)
	step625, _ := TuningStepIndex(6250)
	step10k, _ := TuningStepIndex(10000)

	cases := []struct {
		name     string
		hz       int64
		wantHz   int64
		wantStep int
	}{
		{"Exact 5 kHz Multiple", 146_520_000, 146_520_000, step5},
		{"Exact 6.25 kHz Multiple", 144_443_750, 144_443_750, step625},
		{"Rounds Up To 5 kHz Grid", 146_523_000, 146_525_000, step5},
		{"Rounds Down To 5 kHz Grid", 146_522_000, 146_520_000, step5},
		{"Closer To 6.25 kHz Grid", 144_006_000, 144_006_250, step625},
		{"Equidistant Grids Prefer 5 kHz", 146_527_500, 146_530_000, step5},
		{"UHF Below Boundary Keeps 5 kHz", 440_001_000, 440_000_000, step5},
		{"Boundary Forces 10 kHz", 470_000_000, 470_000_000, step10k},
		{"Above Boundary Rounds To 10 kHz", 475_001_000, 475_000_000, step10k},
		{"Snap Across Boundary Forces 10 kHz", 469_998_000, 470_000_000, step10k},
		{"23cm Rounds To 10 kHz", 1_294_503_000, 1_294_500_000, step10k},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gotHz, gotStep := QuantizeFrequency(c.hz)
			assert.Equal(t, c.wantHz, gotHz, "snapped frequency")
			assert.Equal(t, c.wantStep, gotStep, "step index")
		})
	}
}

func TestQuantizeFrequencyAlwaysOnGrid(t *testing.T) {
	for hz := int64(144_000_000); hz < 144_100_000; hz += 1733 {
		got, step := QuantizeFrequency(hz)

		on5 := got%5000 == 0
		on625 := (got*100)%625_000 == 0
		if !on5 && !on625 {
			t.Fatalf("Frequency %d snapped to %d, which is on neither grid", hz, got)
		}

		want := TuningStepsHz[step]
		if on5 && !on625 && want != 5000 {
			t.Fatalf("Frequency %d got step %d Hz for a 5 kHz grid point", hz, want)
		}
		if on625 && !on5 && want != 6250 {
			t.Fatalf("Frequency %d got step %d Hz for a 6.25 kHz grid point", hz, want)
		}
	}
}
