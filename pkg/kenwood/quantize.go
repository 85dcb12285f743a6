package kenwood

// The radio only tunes on its step grid, so requested frequencies are snapped
// before being written. Below 470 MHz the candidate grids are 5 kHz and
// 6.25 kHz; whichever multiple lands closer wins, with 5 kHz taking ties.
// At 470 MHz and above the radio steps in 10 kHz, so the frequency is
// re-rounded onto that grid and the step forced to match.

const uhfStepBoundaryHz = 470_000_000

// roundToMultiple snaps hz to the nearest multiple of step. Steps are given
// in hundredths of Hz so the 6.25 kHz grid stays exact.
func roundToMultiple(hz int64, stepCentiHz int64) int64 {
	centi := hz * 100
	n := (centi + stepCentiHz/2) / stepCentiHz
	return n * stepCentiHz / 100
}

// QuantizeFrequency snaps a frequency onto the radio's tuning grid and
// returns the snapped frequency together with the matching step index.
func QuantizeFrequency(hz int64) (int64, int) {
	freq5 := roundToMultiple(hz, 5_000_00)
	freq625 := roundToMultiple(hz, 6_250_00)

	diff5 := absInt64(hz - freq5)
	diff625 := absInt64(hz - freq625)

	snapped := freq5
	stepHz := int64(5000)
	if diff625 < diff5 {
		snapped = freq625
		stepHz = 6250
	}

	if snapped >= uhfStepBoundaryHz {
		snapped = roundToMultiple(hz, 10_000_00)
		stepHz = 10000
	}

	step, _ := TuningStepIndex(stepHz)
	return snapped, step
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
