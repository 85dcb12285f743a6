package kenwood

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"testing"
)

// fakeRadio simulates enough of the command set to exercise the rig layer:
// it keeps channel, band and menu state and records every command it saw.
type fakeRadio struct {
	channels map[int]MemoryEntry
	names    map[int]string
	mr       map[Band]int
	vm       map[Band]int
	bc       ControlPTT
	menu     string
	power    map[Band]int
	squelch  map[Band]int
	busy     map[Band]bool
	keyLock  bool

	log    []string
	reject map[string]bool
}

func newFakeRadio() *fakeRadio {
	fields := make([]string, MenuSettingsFieldCount)
	for i := range fields {
		fields[i] = "0"
	}
	return &fakeRadio{
		channels: make(map[int]MemoryEntry),
		names:    make(map[int]string),
		mr:       map[Band]int{BandA: 0, BandB: 0},
		vm:       map[Band]int{BandA: BandModeVFO, BandB: BandModeVFO},
		menu:     strings.Join(fields, ","),
		power:    map[Band]int{BandA: 0, BandB: 0},
		squelch:  map[Band]int{BandA: 0, BandB: 0},
		busy:     map[Band]bool{BandA: false, BandB: false},
		reject:   make(map[string]bool),
	}
}

func (f *fakeRadio) rejected(cmd string) (string, error) {
	return "", fmt.Errorf("%q: %w", cmd, ErrRejected)
}

func (f *fakeRadio) Transact(cmd string) (string, error) {
	f.log = append(f.log, cmd)
	if f.reject[cmd] {
		return f.rejected(cmd)
	}

	switch {
	case cmd == "BC":
		return f.bc.Encode(), nil
	case strings.HasPrefix(cmd, "BC "):
		bc, err := DecodeControlPTT(cmd)
		if err != nil {
			return f.rejected(cmd)
		}
		f.bc = bc
		return cmd, nil

	case strings.HasPrefix(cmd, "VM "):
		payload := strings.TrimPrefix(cmd, "VM ")
		if b, m, ok := strings.Cut(payload, ","); ok {
			band, _ := strconv.Atoi(b)
			mode, _ := strconv.Atoi(m)
			f.vm[Band(band)] = mode
			return cmd, nil
		}
		band, _ := strconv.Atoi(payload)
		return fmt.Sprintf("VM %d,%d", band, f.vm[Band(band)]), nil

	case strings.HasPrefix(cmd, "MR "):
		payload := strings.TrimPrefix(cmd, "MR ")
		if b, c, ok := strings.Cut(payload, ","); ok {
			band, _ := strconv.Atoi(b)
			ch, _ := strconv.Atoi(c)
			if _, exists := f.channels[ch]; !exists {
				return f.rejected(cmd)
			}
			f.mr[Band(band)] = ch
			return cmd, nil
		}
		band, _ := strconv.Atoi(payload)
		return fmt.Sprintf("MR %d,%03d", band, f.mr[Band(band)]), nil

	case strings.HasPrefix(cmd, "ME "):
		payload := strings.TrimPrefix(cmd, "ME ")
		if strings.Contains(payload, ",") {
			entry, err := DecodeMemoryEntry(cmd)
			if err != nil {
				return f.rejected(cmd)
			}
			f.channels[entry.Channel] = entry
			return cmd, nil
		}
		ch, _ := strconv.Atoi(payload)
		entry, exists := f.channels[ch]
		if !exists {
			return f.rejected(cmd)
		}
		return entry.Encode(), nil

	case strings.HasPrefix(cmd, "MN "):
		payload := strings.TrimPrefix(cmd, "MN ")
		if c, name, ok := strings.Cut(payload, ","); ok {
			ch, _ := strconv.Atoi(c)
			f.names[ch] = name
			return cmd, nil
		}
		ch, _ := strconv.Atoi(payload)
		return fmt.Sprintf("MN %03d,%s", ch, f.names[ch]), nil

	case cmd == "MU":
		return "MU " + f.menu, nil
	case strings.HasPrefix(cmd, "MU "):
		f.menu = strings.TrimPrefix(cmd, "MU ")
		return cmd, nil

	case strings.HasPrefix(cmd, "PC "):
		payload := strings.TrimPrefix(cmd, "PC ")
		if b, p, ok := strings.Cut(payload, ","); ok {
			band, _ := strconv.Atoi(b)
			level, _ := strconv.Atoi(p)
			f.power[Band(band)] = level
			return cmd, nil
		}
		band, _ := strconv.Atoi(payload)
		return fmt.Sprintf("PC %d,%d", band, f.power[Band(band)]), nil

	case strings.HasPrefix(cmd, "SQ "):
		payload := strings.TrimPrefix(cmd, "SQ ")
		if b, s, ok := strings.Cut(payload, ","); ok {
			band, _ := strconv.Atoi(b)
			level, _ := strconv.ParseInt(s, 16, 32)
			f.squelch[Band(band)] = int(level)
			return cmd, nil
		}
		band, _ := strconv.Atoi(payload)
		return fmt.Sprintf("SQ %02X", f.squelch[Band(band)]), nil

	case strings.HasPrefix(cmd, "BY "):
		band, _ := strconv.Atoi(strings.TrimPrefix(cmd, "BY "))
		busy := 0
		if f.busy[Band(band)] {
			busy = 1
		}
		return fmt.Sprintf("BY %d,%d", band, busy), nil

	case cmd == "TX", cmd == "RX", cmd == "TT", cmd == "UP", cmd == "DW":
		return cmd, nil

	case cmd == "LK":
		lk := 0
		if f.keyLock {
			lk = 1
		}
		return fmt.Sprintf("LK %d", lk), nil
	case strings.HasPrefix(cmd, "LK "):
		f.keyLock = strings.TrimPrefix(cmd, "LK ") == "1"
		return cmd, nil

	case cmd == "ID":
		return "ID TM-V71", nil
	}

	return f.rejected(cmd)
}

func (f *fakeRadio) Close() error { return nil }

func (f *fakeRadio) sawCommand(cmd string) bool {
	for _, c := range f.log {
		if c == cmd {
			return true
		}
	}
	return false
}

func TestSetVFOSequence(t *testing.T) {
	t.Run("Creates Missing Reserved Channel", func(t *testing.T) {
		radio := newFakeRadio()
		rig := NewRig(radio)

		if err := rig.SetVFO(VFOA); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		want := []string{
			"VM 0,1",
			"ME 998",
			DefaultMemoryEntry(998).Encode(),
			"MR 0,998",
			"BC 0,0",
		}
		if len(radio.log) != len(want) {
			t.Fatalf("Expected %d commands, got %d: %v", len(want), len(radio.log), radio.log)
		}
		for i, cmd := range want {
			if radio.log[i] != cmd {
				t.Errorf("Command %d: expected %q, got %q", i, cmd, radio.log[i])
			}
		}

		entry := radio.channels[998]
		if entry.RxFreqHz != 146_500_000 {
			t.Errorf("Expected default frequency 146500000, got %d", entry.RxFreqHz)
		}
	})

	t.Run("Keeps Existing Reserved Channel", func(t *testing.T) {
		radio := newFakeRadio()
		entry := DefaultMemoryEntry(VFOBChannel)
		entry.RxFreqHz = 446_000_000
		radio.channels[VFOBChannel] = entry
		rig := NewRig(radio)

		if err := rig.SetVFO(VFOB); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if radio.channels[VFOBChannel].RxFreqHz != 446_000_000 {
			t.Error("Expected existing channel to be left alone")
		}
		if !radio.sawCommand("MR 1,999") || !radio.sawCommand("BC 1,1") {
			t.Errorf("Expected band B channel assignment, got %v", radio.log)
		}
	})

	t.Run("Aborts On First Failure", func(t *testing.T) {
		radio := newFakeRadio()
		radio.channels[VFOAChannel] = DefaultMemoryEntry(VFOAChannel)
		radio.reject["MR 0,998"] = true
		rig := NewRig(radio)

		err := rig.SetVFO(VFOA)
		if !errors.Is(err, ErrRejected) {
			t.Fatalf("Expected rejection error, got: %v", err)
		}
		if radio.sawCommand("BC 0,0") {
			t.Error("Expected no control assignment after a failed channel assignment")
		}
	})

	t.Run("Memory Mode Follows Control Band", func(t *testing.T) {
		radio := newFakeRadio()
		radio.bc = ControlPTT{Control: BandB, PTT: BandB}
		rig := NewRig(radio)

		if err := rig.SetVFO(VFOMemory); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !radio.sawCommand("VM 1,1") || !radio.sawCommand("BC 1,1") {
			t.Errorf("Expected band B memory mode, got %v", radio.log)
		}
		for _, cmd := range radio.log {
			if strings.HasPrefix(cmd, "MR ") && strings.Contains(cmd, ",") {
				t.Errorf("Expected no channel assignment in memory mode, got %q", cmd)
			}
		}
	})

	t.Run("Current Selector Is Not Assignable", func(t *testing.T) {
		rig := NewRig(newFakeRadio())
		var uerr *UnsupportedValueError
		if err := rig.SetVFO(VFOCurrent); !errors.As(err, &uerr) {
			t.Fatalf("Expected UnsupportedValueError, got: %v", err)
		}
	})
}

func TestCurrentVFO(t *testing.T) {
	radio := newFakeRadio()
	radio.channels[VFOAChannel] = DefaultMemoryEntry(VFOAChannel)
	radio.channels[VFOBChannel] = DefaultMemoryEntry(VFOBChannel)
	radio.channels[42] = DefaultMemoryEntry(42)
	rig := NewRig(radio)

	cases := []struct {
		name    string
		band    Band
		channel int
		want    VFO
	}{
		{"Band A On 998", BandA, VFOAChannel, VFOA},
		{"Band B On 999", BandB, VFOBChannel, VFOB},
		{"Real Channel Means Memory", BandA, 42, VFOMemory},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			radio.bc = ControlPTT{Control: c.band, PTT: c.band}
			radio.mr[c.band] = c.channel

			got, err := rig.CurrentVFO()
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if got != c.want {
				t.Errorf("Expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestSetFrequency(t *testing.T) {
	t.Run("Quantizes Onto The Grid", func(t *testing.T) {
		radio := newFakeRadio()
		radio.channels[VFOAChannel] = DefaultMemoryEntry(VFOAChannel)
		rig := NewRig(radio)

		if err := rig.SetFrequency(VFOA, 146_523_000); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		entry := radio.channels[VFOAChannel]
		if entry.RxFreqHz != 146_525_000 {
			t.Errorf("Expected 146525000, got %d", entry.RxFreqHz)
		}
		if TuningStepsHz[entry.Step] != 5000 {
			t.Errorf("Expected 5 kHz step, got %d", TuningStepsHz[entry.Step])
		}
	})

	t.Run("Rejects Out Of Range Frequency", func(t *testing.T) {
		rig := NewRig(newFakeRadio())
		var uerr *UnsupportedValueError
		if err := rig.SetFrequency(VFOA, 14_200_000); !errors.As(err, &uerr) {
			t.Fatalf("Expected UnsupportedValueError, got: %v", err)
		}
	})

	t.Run("Materializes Missing Channel", func(t *testing.T) {
		radio := newFakeRadio()
		rig := NewRig(radio)

		if err := rig.SetFrequency(VFOB, 446_000_000); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if radio.channels[VFOBChannel].RxFreqHz != 446_000_000 {
			t.Errorf("Expected 446000000, got %d", radio.channels[VFOBChannel].RxFreqHz)
		}
	})
}

func TestSplit(t *testing.T) {
	setup := func() (*fakeRadio, *Rig) {
		radio := newFakeRadio()
		radio.channels[VFOAChannel] = DefaultMemoryEntry(VFOAChannel)
		radio.channels[VFOBChannel] = DefaultMemoryEntry(VFOBChannel)
		return radio, NewRig(radio)
	}

	t.Run("Assigns PTT To The TX Band", func(t *testing.T) {
		radio, rig := setup()
		if err := rig.SetSplit(VFOB, true); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if radio.bc.PTT != BandB {
			t.Errorf("Expected PTT on band B, got %v", radio.bc.PTT)
		}
	})

	t.Run("Cache Wins Over Front Panel", func(t *testing.T) {
		radio, rig := setup()
		if err := rig.SetSplit(VFOB, true); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		// Operator flips PTT on the front panel.
		radio.bc = ControlPTT{Control: BandA, PTT: BandA}

		var logged bytes.Buffer
		log.SetOutput(&logged)
		defer log.SetOutput(os.Stderr)

		on, tx, err := rig.Split()
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !on || tx != VFOB {
			t.Errorf("Expected split on with TX VFO-B, got on=%v tx=%v", on, tx)
		}
		if radio.bc.PTT != BandA {
			t.Error("Expected no resync of the radio's PTT band")
		}

		warnings := strings.Count(logged.String(), "PTT band changed")
		if warnings != 1 {
			t.Errorf("Expected exactly one mismatch warning, got %d: %q", warnings, logged.String())
		}
	})

	t.Run("Inactive Split Still Reads The Radio", func(t *testing.T) {
		radio, rig := setup()
		on, _, err := rig.Split()
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if on {
			t.Error("Expected split off")
		}
		if !radio.sawCommand("BC") {
			t.Errorf("Expected a PTT band read, got %v", radio.log)
		}
	})

	t.Run("Current Selector Resolves Through Split Roles", func(t *testing.T) {
		radio, rig := setup()
		if err := rig.SetSplit(VFOB, true); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if err := rig.SetFrequency(VFOCurrent, 144_100_000); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if err := rig.SetSplitFrequency(VFOCurrent, 446_100_000); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if radio.channels[VFOAChannel].RxFreqHz != 144_100_000 {
			t.Errorf("Expected RX side on channel 998, got %d", radio.channels[VFOAChannel].RxFreqHz)
		}
		if radio.channels[VFOBChannel].RxFreqHz != 446_100_000 {
			t.Errorf("Expected TX side on channel 999, got %d", radio.channels[VFOBChannel].RxFreqHz)
		}
	})

	t.Run("Explicit Selector Bypasses Split Roles", func(t *testing.T) {
		radio, rig := setup()
		if err := rig.SetSplit(VFOB, true); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if err := rig.SetFrequency(VFOB, 446_200_000); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if radio.channels[VFOBChannel].RxFreqHz != 446_200_000 {
			t.Errorf("Expected channel 999 tuned, got %d", radio.channels[VFOBChannel].RxFreqHz)
		}
	})

	t.Run("Split Off Drops The Cache", func(t *testing.T) {
		_, rig := setup()
		if err := rig.SetSplit(VFOB, true); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if err := rig.SetSplit(VFOA, false); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		on, _, err := rig.Split()
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if on {
			t.Error("Expected split off")
		}
	})
}

func TestToneSquelchMutualExclusion(t *testing.T) {
	radio := newFakeRadio()
	radio.channels[VFOAChannel] = DefaultMemoryEntry(VFOAChannel)
	rig := NewRig(radio)

	if err := rig.SetCTCSSFrequency(VFOA, 1000); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := rig.SetDCSCode(VFOA, 23); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	entry := radio.channels[VFOAChannel]
	if entry.CTCSSEnabled || entry.ToneEnabled {
		t.Error("Expected CTCSS and tone disabled after enabling DCS")
	}
	if !entry.DCSEnabled {
		t.Error("Expected DCS enabled")
	}
	if DCSCodes[entry.DCSIndex] != 23 {
		t.Errorf("Expected DCS code 23, got %d", DCSCodes[entry.DCSIndex])
	}

	code, ok, err := rig.DCSCode(VFOA)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !ok || code != 23 {
		t.Errorf("Expected DCS code 23 active, got %d (ok=%v)", code, ok)
	}

	if _, ok, _ := rig.CTCSSFrequency(VFOA); ok {
		t.Error("Expected CTCSS reported inactive")
	}

	if err := rig.ClearTones(VFOA); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if radio.channels[VFOAChannel].DCSEnabled {
		t.Error("Expected DCS disabled after clearing")
	}
}

func TestToneIndexRangeChecks(t *testing.T) {
	// The ME layout admits two-digit tone indices and a three-digit DCS
	// index, so mismatched firmware can hand back records pointing past the
	// capability tables. Those must surface as protocol errors, not panics.
	setup := func(mutate func(*MemoryEntry)) *Rig {
		radio := newFakeRadio()
		entry := DefaultMemoryEntry(VFOAChannel)
		mutate(&entry)
		radio.channels[VFOAChannel] = entry
		return NewRig(radio)
	}

	t.Run("Tone Index Past The Table", func(t *testing.T) {
		rig := setup(func(e *MemoryEntry) {
			e.ToneEnabled = true
			e.ToneIndex = 99
		})
		var perr *ProtocolError
		if _, _, err := rig.ToneFrequency(VFOA); !errors.As(err, &perr) {
			t.Fatalf("Expected ProtocolError, got: %v", err)
		}
	})

	t.Run("CTCSS Index Past The Table", func(t *testing.T) {
		rig := setup(func(e *MemoryEntry) {
			e.CTCSSEnabled = true
			e.CTCSSIndex = len(CTCSSTonesHz)
		})
		var perr *ProtocolError
		if _, _, err := rig.CTCSSFrequency(VFOA); !errors.As(err, &perr) {
			t.Fatalf("Expected ProtocolError, got: %v", err)
		}
	})

	t.Run("DCS Index Past The Table", func(t *testing.T) {
		rig := setup(func(e *MemoryEntry) {
			e.DCSEnabled = true
			e.DCSIndex = 500
		})
		var perr *ProtocolError
		if _, _, err := rig.DCSCode(VFOA); !errors.As(err, &perr) {
			t.Fatalf("Expected ProtocolError, got: %v", err)
		}
	})

	t.Run("In Range Indices Still Map", func(t *testing.T) {
		rig := setup(func(e *MemoryEntry) {
			e.ToneEnabled = true
			e.ToneIndex = 12
		})
		tone, ok, err := rig.ToneFrequency(VFOA)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !ok || tone != 1000 {
			t.Errorf("Expected tone 100.0 Hz, got %d (ok=%v)", tone, ok)
		}
	})
}

func TestLevels(t *testing.T) {
	radio := newFakeRadio()
	rig := NewRig(radio)

	t.Run("Squelch Is Hex On The Wire", func(t *testing.T) {
		if err := rig.SetSquelch(BandA, 0x1F); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !radio.sawCommand("SQ 0,1F") {
			t.Errorf("Expected SQ 0,1F, got %v", radio.log)
		}
		level, err := rig.Squelch(BandA)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if level != 0x1F {
			t.Errorf("Expected squelch 31, got %d", level)
		}
	})

	t.Run("RF Power Range Checked", func(t *testing.T) {
		if err := rig.SetRFPower(BandB, 2); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		level, err := rig.RFPower(BandB)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if level != 2 {
			t.Errorf("Expected power level 2, got %d", level)
		}

		var uerr *UnsupportedValueError
		if err := rig.SetRFPower(BandA, 3); !errors.As(err, &uerr) {
			t.Fatalf("Expected UnsupportedValueError, got: %v", err)
		}
	})

	t.Run("Busy Per Band", func(t *testing.T) {
		radio.busy[BandB] = true
		busy, err := rig.Busy(BandB)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if !busy {
			t.Error("Expected band B busy")
		}
	})
}

func TestMenuUpdatePreservesOtherFields(t *testing.T) {
	radio := newFakeRadio()
	fields := strings.Split(radio.menu, ",")
	fields[3] = "5F"
	radio.menu = strings.Join(fields, ",")
	rig := NewRig(radio)

	if err := rig.SetBeep(true); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if err := rig.SetExtDataBand(ExtDataBandB); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	got := strings.Split(radio.menu, ",")
	if got[0] != "1" {
		t.Errorf("Expected beep field 1, got %q", got[0])
	}
	if got[3] != "5F" {
		t.Errorf("Expected opaque field preserved, got %q", got[3])
	}

	band, err := rig.ExtDataBand()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if band != ExtDataBandB {
		t.Errorf("Expected ext data band B, got %d", band)
	}
}

func TestIdentify(t *testing.T) {
	rig := NewRig(newFakeRadio())
	model, err := rig.Identify()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if model != "TM-V71" {
		t.Errorf("Expected TM-V71, got %q", model)
	}
}
