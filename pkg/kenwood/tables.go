package kenwood

// Capability tables for the TM-V71(A) / TM-D710 command set, from the
// LA3QMA command-set documentation and the radio's operating manual.

// Band identifies one of the radio's two independent sides.
type Band int

const (
	BandA Band = 0
	BandB Band = 1
)

func (b Band) String() string {
	if b == BandB {
		return "B"
	}
	return "A"
}

// VFO is the caller-facing tuning selector. VFOA and VFOB are emulated with
// two reserved memory channels, since the radio's native VFO mode can only
// tune inside the currently selected sub-band.
type VFO int

const (
	VFOA VFO = iota
	VFOB
	VFOCurrent
	VFOMemory
)

func (v VFO) String() string {
	switch v {
	case VFOA:
		return "VFO-A"
	case VFOB:
		return "VFO-B"
	case VFOCurrent:
		return "current"
	case VFOMemory:
		return "memory"
	}
	return "unknown"
}

// Reserved pseudo-VFO memory channels, outside the user range 0..199
// (plus program-scan edges 200..219 and call channels).
const (
	VFOAChannel = 998
	VFOBChannel = 999
)

// Band mode values for the VM command.
const (
	BandModeVFO    = 0
	BandModeMemory = 1
	BandModeCall   = 2
	BandModeWX     = 3
)

// Operating modes as carried in ME/FO records.
const (
	ModeFM  = 0 // wide FM
	ModeNFM = 1 // narrow FM
	ModeAM  = 2
)

// Passbands per mode, Hz.
const (
	ModeFMPassband  = 15000
	ModeNFMPassband = 5000
	ModeAMPassband  = 4000
)

// Repeater shift direction values.
const (
	ShiftNone  = 0
	ShiftPlus  = 1
	ShiftMinus = 2
)

// Level limits. RF power is an inverted scale on the wire: 0 is high power.
const (
	RFPowerMin = 0
	RFPowerMax = 2

	SquelchMin = 0
	SquelchMax = 0x1F
)

// TuningStepsHz is the radio's step table; a record's step field is an index
// into it.
var TuningStepsHz = []int64{
	5000, 6250, 8333, 10000, 12500, 15000, 20000, 25000, 30000, 50000, 100000,
}

// CTCSSTonesHz holds the 42 Kenwood CTCSS tones in tenths of Hz; tone and
// CTCSS index fields in ME/FO records index into it.
var CTCSSTonesHz = []int{
	670, 693, 719, 744, 770, 797, 825, 854, 885, 915,
	948, 974, 1000, 1035, 1072, 1109, 1148, 1188, 1230, 1273,
	1318, 1365, 1413, 1462, 1514, 1567, 1622, 1679, 1738, 1799,
	1862, 1928, 2035, 2065, 2107, 2181, 2257, 2291, 2336, 2418,
	2503, 2541,
}

// DCSCodes holds the standard 104 DCS codes; the DCS index field in ME/FO
// records indexes into it.
var DCSCodes = []int{
	23, 25, 26, 31, 32, 36, 43, 47, 51, 53,
	54, 65, 71, 72, 73, 74, 114, 115, 116, 122,
	125, 131, 132, 134, 143, 145, 152, 155, 156, 162,
	165, 172, 174, 205, 212, 223, 225, 226, 243, 244,
	245, 246, 251, 252, 255, 261, 263, 265, 266, 271,
	274, 306, 311, 315, 325, 331, 332, 343, 346, 351,
	356, 364, 365, 371, 411, 412, 413, 423, 431, 432,
	445, 446, 452, 454, 455, 462, 464, 465, 466, 503,
	506, 516, 523, 526, 532, 546, 565, 606, 612, 624,
	627, 631, 632, 654, 662, 664, 703, 712, 723, 731,
	732, 734, 743, 754,
}

// FrequencyRange is one receivable span of the radio.
type FrequencyRange struct {
	MinHz int64
	MaxHz int64
}

// RxRanges are the receivable spans (K-type model). Validation against them
// happens before quantization.
var RxRanges = []FrequencyRange{
	{118_000_000, 470_000_000},
	{136_000_000, 174_000_000},
	{300_000_000, 524_000_000},
	{800_000_000, 1_300_000_000},
}

// TuningStepIndex returns the index of a step size in the step table.
func TuningStepIndex(stepHz int64) (int, error) {
	for i, ts := range TuningStepsHz {
		if ts == stepHz {
			return i, nil
		}
	}
	return 0, &UnsupportedValueError{What: "tuning step", Value: stepHz}
}

// CTCSSToneIndex returns the index of a tone (tenths of Hz) in the tone table.
func CTCSSToneIndex(toneTenthHz int) (int, error) {
	for i, t := range CTCSSTonesHz {
		if t == toneTenthHz {
			return i, nil
		}
	}
	return 0, &UnsupportedValueError{What: "CTCSS tone", Value: toneTenthHz}
}

// DCSCodeIndex returns the index of a DCS code in the code table.
func DCSCodeIndex(code int) (int, error) {
	for i, c := range DCSCodes {
		if c == code {
			return i, nil
		}
	}
	return 0, &UnsupportedValueError{What: "DCS code", Value: code}
}

// ValidFrequency reports whether a frequency falls inside a receivable span.
func ValidFrequency(hz int64) bool {
	for _, r := range RxRanges {
		if hz >= r.MinHz && hz < r.MaxHz {
			return true
		}
	}
	return false
}
