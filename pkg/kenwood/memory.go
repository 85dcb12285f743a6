package kenwood

import (
	"errors"
	"fmt"
)

// ChannelUpdate is a sparse delta for a memory channel. Nil fields keep the
// channel's current value; set fields replace it. The radio has no partial
// write, so updates are applied read-modify-write.
type ChannelUpdate struct {
	RxFreqHz     *int64
	Step         *int
	Shift        *int
	Reverse      *bool
	ToneEnabled  *bool
	CTCSSEnabled *bool
	DCSEnabled   *bool
	ToneIndex    *int
	CTCSSIndex   *int
	DCSIndex     *int
	OffsetHz     *int64
	Mode         *int
	TxFreqHz     *int64
	Lockout      *bool
}

func (u ChannelUpdate) apply(e *MemoryEntry) {
	if u.RxFreqHz != nil {
		e.RxFreqHz = *u.RxFreqHz
	}
	if u.Step != nil {
		e.Step = *u.Step
	}
	if u.Shift != nil {
		e.Shift = *u.Shift
	}
	if u.Reverse != nil {
		e.Reverse = *u.Reverse
	}
	if u.ToneEnabled != nil {
		e.ToneEnabled = *u.ToneEnabled
	}
	if u.CTCSSEnabled != nil {
		e.CTCSSEnabled = *u.CTCSSEnabled
	}
	if u.DCSEnabled != nil {
		e.DCSEnabled = *u.DCSEnabled
	}
	if u.ToneIndex != nil {
		e.ToneIndex = *u.ToneIndex
	}
	if u.CTCSSIndex != nil {
		e.CTCSSIndex = *u.CTCSSIndex
	}
	if u.DCSIndex != nil {
		e.DCSIndex = *u.DCSIndex
	}
	if u.OffsetHz != nil {
		e.OffsetHz = *u.OffsetHz
	}
	if u.Mode != nil {
		e.Mode = *u.Mode
	}
	if u.TxFreqHz != nil {
		e.TxFreqHz = *u.TxFreqHz
	}
	if u.Lockout != nil {
		e.Lockout = *u.Lockout
	}
}

// DefaultMemoryEntry is the record written when a channel that has never
// been programmed must exist, notably when claiming a pseudo-VFO channel.
func DefaultMemoryEntry(channel int) MemoryEntry {
	return MemoryEntry{
		Channel:  channel,
		RxFreqHz: 146_500_000,
	}
}

// Helpers for building sparse updates.
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

// readChannel pulls one ME record. The radio answers "N" for a channel that
// has never been written; that maps to ErrChannelNotFound.
func (r *Rig) readChannel(channel int) (MemoryEntry, error) {
	line, err := r.t.Transact(fmt.Sprintf("ME %03d", channel))
	if err != nil {
		if errors.Is(err, ErrRejected) {
			return MemoryEntry{}, fmt.Errorf("channel %d: %w", channel, ErrChannelNotFound)
		}
		return MemoryEntry{}, err
	}
	return DecodeMemoryEntry(line)
}

func (r *Rig) writeChannel(e MemoryEntry) error {
	_, err := r.t.Transact(e.Encode())
	return err
}

// updateChannel applies a sparse delta read-modify-write. A channel that does
// not exist yet starts from the default record, so a partial update of a
// fresh channel still produces a fully populated one.
func (r *Rig) updateChannel(channel int, u ChannelUpdate) error {
	current, err := r.readChannel(channel)
	if errors.Is(err, ErrChannelNotFound) {
		current = DefaultMemoryEntry(channel)
	} else if err != nil {
		return err
	}
	u.apply(&current)
	return r.writeChannel(current)
}

func (r *Rig) readChannelName(channel int) (string, error) {
	line, err := r.t.Transact(fmt.Sprintf("MN %03d", channel))
	if err != nil {
		return "", err
	}
	name, err := DecodeChannelName(line)
	if err != nil {
		return "", err
	}
	return name.Name, nil
}

func (r *Rig) writeChannelName(channel int, name string) error {
	_, err := r.t.Transact(ChannelName{Channel: channel, Name: name}.Encode())
	return err
}
