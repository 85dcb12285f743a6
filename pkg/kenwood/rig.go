package kenwood

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// Rig drives a TM-V71 or TM-D710 through a Transport. All tuning happens
// through memory channels: the radio's native VFO mode can only move inside
// the selected sub-band, so VFOA and VFOB are emulated with the reserved
// channels 998 and 999 and the bands are kept in memory mode.
//
// Methods that need more than one exchange hold the rig mutex for the whole
// sequence, so concurrent callers see consistent radio state.
type Rig struct {
	t  Transport
	mu sync.Mutex

	split splitState
}

// splitState is process-local. The radio has no notion of split; the engine
// fakes it by assigning PTT to one band and tuning the two bands separately.
// The cached roles are authoritative even if the operator later pokes the
// radio's front panel.
type splitState struct {
	active bool
	tx     VFO
	rx     VFO
}

// NewRig wraps a transport. The transport is owned by the rig afterwards.
func NewRig(t Transport) *Rig {
	return &Rig{t: t}
}

// Close releases the underlying transport.
func (r *Rig) Close() error {
	return r.t.Close()
}

func bandForVFO(v VFO) (Band, error) {
	switch v {
	case VFOA:
		return BandA, nil
	case VFOB:
		return BandB, nil
	}
	return BandA, &UnsupportedValueError{What: "VFO", Value: v.String()}
}

func channelForVFO(v VFO) int {
	if v == VFOB {
		return VFOBChannel
	}
	return VFOAChannel
}

// low level exchanges

func (r *Rig) pullBC() (ControlPTT, error) {
	line, err := r.t.Transact("BC")
	if err != nil {
		return ControlPTT{}, err
	}
	return DecodeControlPTT(line)
}

func (r *Rig) pushBC(ctrl, ptt Band) error {
	_, err := r.t.Transact(ControlPTT{Control: ctrl, PTT: ptt}.Encode())
	return err
}

func (r *Rig) pullVM(band Band) (int, error) {
	line, err := r.t.Transact(fmt.Sprintf("VM %d", band))
	if err != nil {
		return 0, err
	}
	bm, err := DecodeBandMode(line)
	if err != nil {
		return 0, err
	}
	return bm.Mode, nil
}

func (r *Rig) pushVM(band Band, mode int) error {
	_, err := r.t.Transact(BandMode{Band: band, Mode: mode}.Encode())
	return err
}

func (r *Rig) pullMR(band Band) (int, error) {
	line, err := r.t.Transact(fmt.Sprintf("MR %d", band))
	if err != nil {
		return 0, err
	}
	sel, err := DecodeChannelSelect(line)
	if err != nil {
		return 0, err
	}
	return sel.Channel, nil
}

func (r *Rig) pushMR(band Band, channel int) error {
	_, err := r.t.Transact(ChannelSelect{Band: band, Channel: channel}.Encode())
	return err
}

// resolveChannel maps a selector to the memory channel its operations act
// on. The current selector follows the control band to that band's pseudo
// channel, so tuning never clobbers a real memory channel.
func (r *Rig) resolveChannel(v VFO) (int, error) {
	switch v {
	case VFOA, VFOB:
		return channelForVFO(v), nil
	case VFOCurrent, VFOMemory:
		bc, err := r.pullBC()
		if err != nil {
			return 0, err
		}
		if bc.Control == BandB {
			return VFOBChannel, nil
		}
		return VFOAChannel, nil
	}
	return 0, &UnsupportedValueError{What: "VFO", Value: v.String()}
}

// resolveSplit substitutes the cached split role for the current selector
// while split is active. forTx picks the transmit side.
func (r *Rig) resolveSplit(forTx bool, v VFO) VFO {
	if !r.split.active || v != VFOCurrent {
		return v
	}
	if forTx {
		return r.split.tx
	}
	return r.split.rx
}

// SetVFO selects a pseudo-VFO or memory operation. Claiming a pseudo-VFO
// forces the band into memory mode, creates the reserved channel if the
// radio has never seen it, parks the band on it and takes control. The
// sequence stops at the first failing exchange; earlier exchanges are not
// rolled back.
func (r *Rig) SetVFO(v VFO) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var band Band
	channel := 0

	switch v {
	case VFOA, VFOB:
		band, _ = bandForVFO(v)
		channel = channelForVFO(v)
	case VFOMemory:
		bc, err := r.pullBC()
		if err != nil {
			return err
		}
		band = bc.Control
	default:
		return &UnsupportedValueError{What: "VFO", Value: v.String()}
	}

	if err := r.pushVM(band, BandModeMemory); err != nil {
		return err
	}

	if channel > 0 {
		if _, err := r.readChannel(channel); err != nil {
			if !errors.Is(err, ErrChannelNotFound) {
				return err
			}
			if err := r.writeChannel(DefaultMemoryEntry(channel)); err != nil {
				return err
			}
		}
		if err := r.pushMR(band, channel); err != nil {
			return err
		}
	}

	return r.pushBC(band, band)
}

// CurrentVFO reports which selector the control band maps to.
func (r *Rig) CurrentVFO() (VFO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bc, err := r.pullBC()
	if err != nil {
		return VFOA, err
	}
	channel, err := r.pullMR(bc.Control)
	if err != nil {
		return VFOA, err
	}
	switch channel {
	case VFOAChannel:
		return VFOA, nil
	case VFOBChannel:
		return VFOB, nil
	}
	return VFOMemory, nil
}

// SetFrequency tunes the receive frequency of a selector, snapping it onto
// the radio's step grid first.
func (r *Rig) SetFrequency(v VFO, hz int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setFrequency(r.resolveSplit(false, v), hz)
}

// SetSplitFrequency tunes the transmit side of an active split. Without an
// active split it behaves like SetFrequency.
func (r *Rig) SetSplitFrequency(v VFO, hz int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setFrequency(r.resolveSplit(true, v), hz)
}

func (r *Rig) setFrequency(v VFO, hz int64) error {
	if !ValidFrequency(hz) {
		return &UnsupportedValueError{What: "frequency", Value: hz}
	}
	channel, err := r.resolveChannel(v)
	if err != nil {
		return err
	}
	snapped, step := QuantizeFrequency(hz)
	return r.updateChannel(channel, ChannelUpdate{
		RxFreqHz: int64Ptr(snapped),
		Step:     intPtr(step),
	})
}

// Frequency reads the receive frequency of a selector.
func (r *Rig) Frequency(v VFO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frequency(r.resolveSplit(false, v))
}

// SplitFrequency reads the transmit-side frequency of an active split.
func (r *Rig) SplitFrequency(v VFO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frequency(r.resolveSplit(true, v))
}

func (r *Rig) frequency(v VFO) (int64, error) {
	entry, err := r.entryFor(v)
	if err != nil {
		return 0, err
	}
	return entry.RxFreqHz, nil
}

func (r *Rig) entryFor(v VFO) (MemoryEntry, error) {
	channel, err := r.resolveChannel(v)
	if err != nil {
		return MemoryEntry{}, err
	}
	return r.readChannel(channel)
}

// SetMode sets the operating mode of a selector.
func (r *Rig) SetMode(v VFO, mode int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch mode {
	case ModeFM, ModeNFM, ModeAM:
	default:
		return &UnsupportedValueError{What: "mode", Value: mode}
	}
	channel, err := r.resolveChannel(r.resolveSplit(false, v))
	if err != nil {
		return err
	}
	return r.updateChannel(channel, ChannelUpdate{Mode: intPtr(mode)})
}

// Mode reads the operating mode of a selector.
func (r *Rig) Mode(v VFO) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(r.resolveSplit(false, v))
	if err != nil {
		return 0, err
	}
	return entry.Mode, nil
}

// SetTuningStep sets the tuning step of a selector. The step must be one of
// the radio's supported sizes.
func (r *Rig) SetTuningStep(v VFO, stepHz int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	step, err := TuningStepIndex(stepHz)
	if err != nil {
		return err
	}
	channel, err := r.resolveChannel(v)
	if err != nil {
		return err
	}
	return r.updateChannel(channel, ChannelUpdate{Step: intPtr(step)})
}

// TuningStep reads the tuning step of a selector in Hz.
func (r *Rig) TuningStep(v VFO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(v)
	if err != nil {
		return 0, err
	}
	if entry.Step < 0 || entry.Step >= len(TuningStepsHz) {
		return 0, &ProtocolError{Command: "ME", Reason: fmt.Sprintf("step index %d out of range", entry.Step)}
	}
	return TuningStepsHz[entry.Step], nil
}

// SetRepeaterShift sets the repeater shift direction of a selector.
func (r *Rig) SetRepeaterShift(v VFO, shift int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch shift {
	case ShiftNone, ShiftPlus, ShiftMinus:
	default:
		return &UnsupportedValueError{What: "repeater shift", Value: shift}
	}
	channel, err := r.resolveChannel(v)
	if err != nil {
		return err
	}
	return r.updateChannel(channel, ChannelUpdate{Shift: intPtr(shift)})
}

// RepeaterShift reads the repeater shift direction of a selector.
func (r *Rig) RepeaterShift(v VFO) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(v)
	if err != nil {
		return 0, err
	}
	return entry.Shift, nil
}

// SetRepeaterOffset sets the repeater offset of a selector. The offset is
// snapped onto the tuning grid the same way a frequency is.
func (r *Rig) SetRepeaterOffset(v VFO, hz int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapped, _ := QuantizeFrequency(hz)
	channel, err := r.resolveChannel(v)
	if err != nil {
		return err
	}
	return r.updateChannel(channel, ChannelUpdate{OffsetHz: int64Ptr(snapped)})
}

// RepeaterOffset reads the repeater offset of a selector in Hz.
func (r *Rig) RepeaterOffset(v VFO) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(v)
	if err != nil {
		return 0, err
	}
	return entry.OffsetHz, nil
}

// Tone squelch. The three squelch systems are mutually exclusive: enabling
// one disables the other two.

// SetToneFrequency enables transmit subtone with the given tone, in tenths
// of Hz.
func (r *Rig) SetToneFrequency(v VFO, toneTenthHz int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := CTCSSToneIndex(toneTenthHz)
	if err != nil {
		return err
	}
	return r.setTone(v, ChannelUpdate{
		ToneEnabled: boolPtr(true),
		ToneIndex:   intPtr(idx),
	})
}

// ToneFrequency reads the transmit subtone in tenths of Hz. ok is false when
// the tone is disabled.
func (r *Rig) ToneFrequency(v VFO) (toneTenthHz int, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(v)
	if err != nil {
		return 0, false, err
	}
	if !entry.ToneEnabled {
		return 0, false, nil
	}
	if entry.ToneIndex < 0 || entry.ToneIndex >= len(CTCSSTonesHz) {
		return 0, false, &ProtocolError{Command: "ME", Reason: fmt.Sprintf("tone index %d out of range", entry.ToneIndex)}
	}
	return CTCSSTonesHz[entry.ToneIndex], true, nil
}

// SetCTCSSFrequency enables CTCSS squelch with the given tone, in tenths
// of Hz.
func (r *Rig) SetCTCSSFrequency(v VFO, toneTenthHz int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := CTCSSToneIndex(toneTenthHz)
	if err != nil {
		return err
	}
	return r.setTone(v, ChannelUpdate{
		CTCSSEnabled: boolPtr(true),
		CTCSSIndex:   intPtr(idx),
	})
}

// CTCSSFrequency reads the CTCSS squelch tone in tenths of Hz. ok is false
// when CTCSS is disabled.
func (r *Rig) CTCSSFrequency(v VFO) (toneTenthHz int, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(v)
	if err != nil {
		return 0, false, err
	}
	if !entry.CTCSSEnabled {
		return 0, false, nil
	}
	if entry.CTCSSIndex < 0 || entry.CTCSSIndex >= len(CTCSSTonesHz) {
		return 0, false, &ProtocolError{Command: "ME", Reason: fmt.Sprintf("CTCSS index %d out of range", entry.CTCSSIndex)}
	}
	return CTCSSTonesHz[entry.CTCSSIndex], true, nil
}

// SetDCSCode enables DCS squelch with the given code.
func (r *Rig) SetDCSCode(v VFO, code int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := DCSCodeIndex(code)
	if err != nil {
		return err
	}
	return r.setTone(v, ChannelUpdate{
		DCSEnabled: boolPtr(true),
		DCSIndex:   intPtr(idx),
	})
}

// DCSCode reads the DCS squelch code. ok is false when DCS is disabled.
func (r *Rig) DCSCode(v VFO) (code int, ok bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(v)
	if err != nil {
		return 0, false, err
	}
	if !entry.DCSEnabled {
		return 0, false, nil
	}
	if entry.DCSIndex < 0 || entry.DCSIndex >= len(DCSCodes) {
		return 0, false, &ProtocolError{Command: "ME", Reason: fmt.Sprintf("DCS index %d out of range", entry.DCSIndex)}
	}
	return DCSCodes[entry.DCSIndex], true, nil
}

// ClearTones disables all three squelch systems on a selector.
func (r *Rig) ClearTones(v VFO) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setTone(v, ChannelUpdate{})
}

// setTone applies a tone update with the other squelch systems forced off.
func (r *Rig) setTone(v VFO, u ChannelUpdate) error {
	off := false
	if u.ToneEnabled == nil {
		u.ToneEnabled = &off
	}
	if u.CTCSSEnabled == nil {
		u.CTCSSEnabled = &off
	}
	if u.DCSEnabled == nil {
		u.DCSEnabled = &off
	}
	channel, err := r.resolveChannel(v)
	if err != nil {
		return err
	}
	return r.updateChannel(channel, u)
}

// SetReverse swaps transmit and receive frequencies on a selector.
func (r *Rig) SetReverse(v VFO, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channel, err := r.resolveChannel(v)
	if err != nil {
		return err
	}
	return r.updateChannel(channel, ChannelUpdate{Reverse: boolPtr(on)})
}

// Reverse reports whether reverse is active on a selector.
func (r *Rig) Reverse(v VFO) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.entryFor(v)
	if err != nil {
		return false, err
	}
	return entry.Reverse, nil
}

// SetLockout marks a memory channel to be skipped during scan.
func (r *Rig) SetLockout(channel int, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateChannel(channel, ChannelUpdate{Lockout: boolPtr(on)})
}

// SetMemoryChannel parks a band on a memory channel.
func (r *Rig) SetMemoryChannel(band Band, channel int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pushMR(band, channel)
}

// MemoryChannel reads the memory channel a band is parked on.
func (r *Rig) MemoryChannel(band Band) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pullMR(band)
}

// Channel is a full memory channel record with its display name.
type Channel struct {
	MemoryEntry
	Name string
}

// ReadChannel pulls one channel record and its name.
func (r *Rig) ReadChannel(channel int) (Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.readChannel(channel)
	if err != nil {
		return Channel{}, err
	}
	name, err := r.readChannelName(channel)
	if err != nil {
		return Channel{}, err
	}
	return Channel{MemoryEntry: entry, Name: name}, nil
}

// WriteChannel pushes a full channel record and its name.
func (r *Rig) WriteChannel(c Channel) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeChannel(c.MemoryEntry); err != nil {
		return err
	}
	return r.writeChannelName(c.Channel, c.Name)
}

// UpdateChannel applies a sparse delta to a channel read-modify-write. A
// channel the radio has never seen starts from the default record.
func (r *Rig) UpdateChannel(channel int, u ChannelUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateChannel(channel, u)
}

// SetPTT keys or unkeys the transmitter on the PTT band.
func (r *Rig) SetPTT(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd := "RX"
	if on {
		cmd = "TX"
	}
	_, err := r.t.Transact(cmd)
	return err
}

// SendToneBurst keys the transmitter with the 1750 Hz tone burst; off
// releases it.
func (r *Rig) SendToneBurst(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd := "RX"
	if on {
		cmd = "TT"
	}
	_, err := r.t.Transact(cmd)
	return err
}

// Busy reports whether a band's squelch is open.
func (r *Rig) Busy(band Band) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := r.t.Transact(fmt.Sprintf("BY %d", band))
	if err != nil {
		return false, err
	}
	var b, busy int
	if _, err := fmt.Sscanf(line, "BY %d,%d", &b, &busy); err != nil {
		return false, &ProtocolError{Command: "BY", Response: line, Reason: "unexpected reply"}
	}
	return busy != 0, nil
}

// SetRFPower sets a band's RF power level. The wire scale is inverted:
// 0 is high, 2 is low.
func (r *Rig) SetRFPower(band Band, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < RFPowerMin || level > RFPowerMax {
		return &UnsupportedValueError{What: "RF power", Value: level}
	}
	_, err := r.t.Transact(fmt.Sprintf("PC %d,%d", band, level))
	return err
}

// RFPower reads a band's RF power level.
func (r *Rig) RFPower(band Band) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := r.t.Transact(fmt.Sprintf("PC %d", band))
	if err != nil {
		return 0, err
	}
	var b, level int
	if _, err := fmt.Sscanf(line, "PC %d,%d", &b, &level); err != nil {
		return 0, &ProtocolError{Command: "PC", Response: line, Reason: "unexpected reply"}
	}
	if level < RFPowerMin || level > RFPowerMax {
		return 0, &ProtocolError{Command: "PC", Response: line, Reason: "power level out of range"}
	}
	return level, nil
}

// SetSquelch sets a band's squelch threshold, 0..31.
func (r *Rig) SetSquelch(band Band, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < SquelchMin || level > SquelchMax {
		return &UnsupportedValueError{What: "squelch", Value: level}
	}
	_, err := r.t.Transact(fmt.Sprintf("SQ %d,%02X", band, level))
	return err
}

// Squelch reads a band's squelch threshold. The radio answers with a bare
// hex value, without echoing the band.
func (r *Rig) Squelch(band Band) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := r.t.Transact(fmt.Sprintf("SQ %d", band))
	if err != nil {
		return 0, err
	}
	var level int
	if _, err := fmt.Sscanf(line, "SQ %X", &level); err != nil {
		return 0, &ProtocolError{Command: "SQ", Response: line, Reason: "unexpected reply"}
	}
	if level < SquelchMin || level > SquelchMax {
		return 0, &ProtocolError{Command: "SQ", Response: line, Reason: "squelch level out of range"}
	}
	return level, nil
}

// SetSplit assigns PTT to the transmit selector and records the split roles.
// Turning split off keeps the radio as is and only drops the cached roles.
func (r *Rig) SetSplit(tx VFO, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !on {
		r.split.active = false
		return nil
	}

	band, err := bandForVFO(tx)
	if err != nil {
		return err
	}
	if err := r.pushBC(band, band); err != nil {
		return err
	}

	rx := VFOA
	if tx == VFOA {
		rx = VFOB
	}
	r.split = splitState{active: true, tx: tx, rx: rx}
	return nil
}

// Split reports the cached split state. The radio's actual PTT band is
// always read for comparison; if the operator has moved it the cache still
// wins, since silently following the front panel would surprise the calling
// program.
func (r *Rig) Split() (on bool, tx VFO, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bc, err := r.pullBC()
	if err != nil {
		return false, VFOA, err
	}
	if !r.split.active {
		return false, VFOA, nil
	}
	if band, _ := bandForVFO(r.split.tx); bc.PTT != band {
		log.Printf("PTT band changed on the front panel; still addressing %s as the TX band", r.split.tx)
	}
	return true, r.split.tx, nil
}

// SetKeyLock enables or disables the front panel key lock.
func (r *Rig) SetKeyLock(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.t.Transact(fmt.Sprintf("LK %d", btoi(on)))
	return err
}

// KeyLock reads the front panel key lock state.
func (r *Rig) KeyLock() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := r.t.Transact("LK")
	if err != nil {
		return false, err
	}
	var v int
	if _, err := fmt.Sscanf(line, "LK %d", &v); err != nil {
		return false, &ProtocolError{Command: "LK", Response: line, Reason: "unexpected reply"}
	}
	return v != 0, nil
}

// TuneUp steps the control band up by its tuning step.
func (r *Rig) TuneUp() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.t.Transact("UP")
	return err
}

// TuneDown steps the control band down by its tuning step.
func (r *Rig) TuneDown() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.t.Transact("DW")
	return err
}

// Identify returns the radio's model string.
func (r *Rig) Identify() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, err := r.t.Transact("ID")
	if err != nil {
		return "", err
	}
	var model string
	if _, err := fmt.Sscanf(line, "ID %s", &model); err != nil {
		return "", &ProtocolError{Command: "ID", Response: line, Reason: "unexpected reply"}
	}
	return model, nil
}

// menu settings, all read-modify-write over the single MU record

// MenuSettingsSnapshot pulls the full menu record.
func (r *Rig) MenuSettingsSnapshot() (MenuSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pullMU()
}

func (r *Rig) pullMU() (MenuSettings, error) {
	line, err := r.t.Transact("MU")
	if err != nil {
		return MenuSettings{}, err
	}
	return DecodeMenuSettings(line)
}

func (r *Rig) updateMenu(mutate func(*MenuSettings) error) error {
	mu, err := r.pullMU()
	if err != nil {
		return err
	}
	if err := mutate(&mu); err != nil {
		return err
	}
	_, err = r.t.Transact(mu.Encode())
	return err
}

// SetBeep enables or disables the key beep.
func (r *Rig) SetBeep(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateMenu(func(m *MenuSettings) error {
		m.SetBeep(on)
		return nil
	})
}

// Beep reports whether the key beep is enabled.
func (r *Rig) Beep() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, err := r.pullMU()
	if err != nil {
		return false, err
	}
	return mu.Beep(), nil
}

// SetBrightness sets the display brightness, 0..8.
func (r *Rig) SetBrightness(level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if level < 0 || level > 8 {
		return &UnsupportedValueError{What: "brightness", Value: level}
	}
	return r.updateMenu(func(m *MenuSettings) error {
		m.SetBrightness(level)
		return nil
	})
}

// Brightness reads the display brightness.
func (r *Rig) Brightness() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, err := r.pullMU()
	if err != nil {
		return 0, err
	}
	return mu.Brightness(), nil
}

// SetAutoPowerOff sets the auto power-off timer in minutes, 0 for off.
func (r *Rig) SetAutoPowerOff(minutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateMenu(func(m *MenuSettings) error {
		m.SetAutoPowerOffMinutes(minutes)
		return nil
	})
}

// AutoPowerOff reads the auto power-off timer in minutes, 0 for off.
func (r *Rig) AutoPowerOff() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, err := r.pullMU()
	if err != nil {
		return 0, err
	}
	return mu.AutoPowerOffMinutes(), nil
}

// SetExtDataBand assigns the external data connector to a band.
func (r *Rig) SetExtDataBand(v int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateMenu(func(m *MenuSettings) error {
		return m.SetExtDataBand(v)
	})
}

// ExtDataBand reads the external data connector band assignment.
func (r *Rig) ExtDataBand() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, err := r.pullMU()
	if err != nil {
		return 0, err
	}
	return mu.ExtDataBand(), nil
}

// SetAutoRepeaterOffset enables or disables automatic repeater offset.
func (r *Rig) SetAutoRepeaterOffset(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateMenu(func(m *MenuSettings) error {
		m.SetAutoRepeaterOffset(on)
		return nil
	})
}

// AutoRepeaterOffset reports whether automatic repeater offset is enabled.
func (r *Rig) AutoRepeaterOffset() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, err := r.pullMU()
	if err != nil {
		return false, err
	}
	return mu.AutoRepeaterOffset(), nil
}

// SetAIP enables or disables the advanced intercept point on both bands.
func (r *Rig) SetAIP(on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateMenu(func(m *MenuSettings) error {
		m.SetAIP(on)
		return nil
	})
}

// AIP reports whether the advanced intercept point is enabled.
func (r *Rig) AIP() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, err := r.pullMU()
	if err != nil {
		return false, err
	}
	return mu.AIP(), nil
}

// SetScanResume sets the scan-resume mode.
func (r *Rig) SetScanResume(mode int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if mode < ScanResumeTime || mode > ScanResumeSeek {
		return &UnsupportedValueError{What: "scan resume", Value: mode}
	}
	return r.updateMenu(func(m *MenuSettings) error {
		m.SetScanResume(mode)
		return nil
	})
}

// ScanResume reads the scan-resume mode.
func (r *Rig) ScanResume() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	mu, err := r.pullMU()
	if err != nil {
		return 0, err
	}
	return mu.ScanResume(), nil
}
