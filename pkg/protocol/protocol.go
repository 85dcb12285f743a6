package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/k7sle/tmv71d/pkg/kenwood"
)

// Response is the envelope every API endpoint answers with
type Response struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Status represents the current daemon status
type Status struct {
	Model     string     `json:"model"`
	Connected bool       `json:"connected"`
	VFO       string     `json:"vfo"`
	SplitOn   bool       `json:"split_on"`
	SplitTX   string     `json:"split_tx,omitempty"`
	Bands     [2]BandRig `json:"bands"`
	Uptime    string     `json:"uptime"`
	StartTime time.Time  `json:"start_time"`
	Version   string     `json:"version"`
}

// BandRig is the per-band slice of the daemon status
type BandRig struct {
	Band      string `json:"band"`
	Frequency int64  `json:"frequency"`
	Mode      string `json:"mode"`
	Channel   int    `json:"channel"`
	Busy      bool   `json:"busy"`
	RFPower   int    `json:"rf_power"`
	Squelch   int    `json:"squelch"`
}

// ChannelRecord is the API form of one memory channel.
type ChannelRecord struct {
	Channel  int    `json:"channel"`
	Name     string `json:"name"`
	RxFreq   int64  `json:"rx_freq"`
	TxFreq   int64  `json:"tx_freq"`
	StepHz   int64  `json:"step_hz"`
	Shift    string `json:"shift"`
	Reverse  bool   `json:"reverse"`
	Mode     string `json:"mode"`
	OffsetHz int64  `json:"offset_hz"`
	ToneHz   int    `json:"tone_hz,omitempty"`
	CTCSSHz  int    `json:"ctcss_hz,omitempty"`
	DCSCode  int    `json:"dcs_code,omitempty"`
	Lockout  bool   `json:"lockout"`
}

// BackupInfo describes one stored codeplug snapshot.
type BackupInfo struct {
	ID           int64     `json:"id"`
	Label        string    `json:"label"`
	CreatedAt    time.Time `json:"created_at"`
	ChannelCount int       `json:"channel_count"`
}

// Request bodies for the set endpoints.
type FrequencyRequest struct {
	VFO       string `json:"vfo"`
	Frequency int64  `json:"frequency"`
}

type ModeRequest struct {
	VFO  string `json:"vfo"`
	Mode string `json:"mode"`
}

type VFORequest struct {
	VFO string `json:"vfo"`
}

type SplitRequest struct {
	On bool   `json:"on"`
	TX string `json:"tx"`
}

type PTTRequest struct {
	On bool `json:"on"`
}

type LevelRequest struct {
	Band  string `json:"band"`
	Level int    `json:"level"`
}

type MemoryRequest struct {
	Band    string `json:"band"`
	Channel int    `json:"channel"`
}

// ModeName maps a wire mode value to its API name.
func ModeName(mode int) string {
	switch mode {
	case kenwood.ModeFM:
		return "FM"
	case kenwood.ModeNFM:
		return "NFM"
	case kenwood.ModeAM:
		return "AM"
	}
	return "UNKNOWN"
}

// ParseMode maps an API mode name to its wire value.
func ParseMode(name string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FM":
		return kenwood.ModeFM, nil
	case "NFM":
		return kenwood.ModeNFM, nil
	case "AM":
		return kenwood.ModeAM, nil
	}
	return 0, fmt.Errorf("unknown mode %q", name)
}

// ParseVFO maps an API selector name to a selector.
func ParseVFO(name string) (kenwood.VFO, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A", "VFO-A", "VFOA":
		return kenwood.VFOA, nil
	case "B", "VFO-B", "VFOB":
		return kenwood.VFOB, nil
	case "", "CURRENT":
		return kenwood.VFOCurrent, nil
	case "MEMORY", "MEM":
		return kenwood.VFOMemory, nil
	}
	return kenwood.VFOA, fmt.Errorf("unknown VFO %q", name)
}

// ParseBand maps an API band name to a band.
func ParseBand(name string) (kenwood.Band, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "A", "0":
		return kenwood.BandA, nil
	case "B", "1":
		return kenwood.BandB, nil
	}
	return kenwood.BandA, fmt.Errorf("unknown band %q", name)
}

// ShiftName maps a wire shift value to its API name.
func ShiftName(shift int) string {
	switch shift {
	case kenwood.ShiftPlus:
		return "+"
	case kenwood.ShiftMinus:
		return "-"
	}
	return ""
}

// ParseShift maps an API shift name to its wire value.
func ParseShift(name string) (int, error) {
	switch strings.TrimSpace(name) {
	case "", "simplex":
		return kenwood.ShiftNone, nil
	case "+", "plus":
		return kenwood.ShiftPlus, nil
	case "-", "minus":
		return kenwood.ShiftMinus, nil
	}
	return 0, fmt.Errorf("unknown shift %q", name)
}

// FromChannel converts an engine channel record to its API form. Index
// fields outside the capability tables mean the record came from mismatched
// firmware and are reported as errors rather than mapped.
func FromChannel(c kenwood.Channel) (ChannelRecord, error) {
	rec := ChannelRecord{
		Channel:  c.Channel,
		Name:     c.Name,
		RxFreq:   c.RxFreqHz,
		TxFreq:   c.TxFreqHz,
		Shift:    ShiftName(c.Shift),
		Reverse:  c.Reverse,
		Mode:     ModeName(c.Mode),
		OffsetHz: c.OffsetHz,
		Lockout:  c.Lockout,
	}
	if c.Step >= 0 && c.Step < len(kenwood.TuningStepsHz) {
		rec.StepHz = kenwood.TuningStepsHz[c.Step]
	}
	if c.ToneEnabled {
		if c.ToneIndex < 0 || c.ToneIndex >= len(kenwood.CTCSSTonesHz) {
			return ChannelRecord{}, fmt.Errorf("channel %d: tone index %d out of range", c.Channel, c.ToneIndex)
		}
		rec.ToneHz = kenwood.CTCSSTonesHz[c.ToneIndex]
	}
	if c.CTCSSEnabled {
		if c.CTCSSIndex < 0 || c.CTCSSIndex >= len(kenwood.CTCSSTonesHz) {
			return ChannelRecord{}, fmt.Errorf("channel %d: CTCSS index %d out of range", c.Channel, c.CTCSSIndex)
		}
		rec.CTCSSHz = kenwood.CTCSSTonesHz[c.CTCSSIndex]
	}
	if c.DCSEnabled {
		if c.DCSIndex < 0 || c.DCSIndex >= len(kenwood.DCSCodes) {
			return ChannelRecord{}, fmt.Errorf("channel %d: DCS index %d out of range", c.Channel, c.DCSIndex)
		}
		rec.DCSCode = kenwood.DCSCodes[c.DCSIndex]
	}
	return rec, nil
}

// ToChannel converts an API record back to an engine channel record. At most
// one of tone, CTCSS and DCS may be set.
func ToChannel(rec ChannelRecord) (kenwood.Channel, error) {
	mode, err := ParseMode(rec.Mode)
	if err != nil {
		return kenwood.Channel{}, err
	}
	shift, err := ParseShift(rec.Shift)
	if err != nil {
		return kenwood.Channel{}, err
	}

	active := 0
	for _, set := range []bool{rec.ToneHz != 0, rec.CTCSSHz != 0, rec.DCSCode != 0} {
		if set {
			active++
		}
	}
	if active > 1 {
		return kenwood.Channel{}, fmt.Errorf("tone, ctcss and dcs are mutually exclusive")
	}

	entry := kenwood.MemoryEntry{
		Channel:  rec.Channel,
		RxFreqHz: rec.RxFreq,
		TxFreqHz: rec.TxFreq,
		Shift:    shift,
		Reverse:  rec.Reverse,
		Mode:     mode,
		OffsetHz: rec.OffsetHz,
		Lockout:  rec.Lockout,
	}

	if rec.StepHz != 0 {
		step, err := kenwood.TuningStepIndex(rec.StepHz)
		if err != nil {
			return kenwood.Channel{}, err
		}
		entry.Step = step
	}
	if rec.ToneHz != 0 {
		idx, err := kenwood.CTCSSToneIndex(rec.ToneHz)
		if err != nil {
			return kenwood.Channel{}, err
		}
		entry.ToneEnabled = true
		entry.ToneIndex = idx
	}
	if rec.CTCSSHz != 0 {
		idx, err := kenwood.CTCSSToneIndex(rec.CTCSSHz)
		if err != nil {
			return kenwood.Channel{}, err
		}
		entry.CTCSSEnabled = true
		entry.CTCSSIndex = idx
	}
	if rec.DCSCode != 0 {
		idx, err := kenwood.DCSCodeIndex(rec.DCSCode)
		if err != nil {
			return kenwood.Channel{}, err
		}
		entry.DCSEnabled = true
		entry.DCSIndex = idx
	}

	return kenwood.Channel{MemoryEntry: entry, Name: rec.Name}, nil
}

// String converts a Response to JSON
func (r *Response) String() string {
	data, _ := json.Marshal(r)
	return string(data)
}

// NewSuccessResponse creates a successful response
func NewSuccessResponse(data map[string]interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err string) *Response {
	return &Response{
		Success: false,
		Error:   err,
	}
}
