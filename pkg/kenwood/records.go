package kenwood

import (
	"fmt"
	"strconv"
	"strings"
)

// The radio exchanges single-line ASCII records: a two-letter mnemonic, a
// space, and comma-separated positional fields with fixed widths. A field
// written with the wrong width or base is a silent protocol bug on real
// hardware, so each record's layout table below is the single source of
// truth for both encoding and decoding.

// fieldFmt describes one positional field: zero-padded width and base.
type fieldFmt struct {
	width int
	hex   bool
}

func formatField(v int64, f fieldFmt) string {
	if f.hex {
		return fmt.Sprintf("%0*X", f.width, v)
	}
	return fmt.Sprintf("%0*d", f.width, v)
}

func parseField(s string, f fieldFmt) (int64, error) {
	base := 10
	if f.hex {
		base = 16
	}
	return strconv.ParseInt(s, base, 64)
}

// splitRecord strips the mnemonic prefix and splits the payload, insisting on
// the exact field count. Partial parses are never accepted.
func splitRecord(mnemonic, line string, nfields int) ([]string, error) {
	payload, ok := strings.CutPrefix(line, mnemonic+" ")
	if !ok {
		return nil, &ProtocolError{
			Command:  mnemonic,
			Response: line,
			Reason:   "missing " + mnemonic + " prefix",
		}
	}
	fields := strings.Split(payload, ",")
	if len(fields) != nfields {
		return nil, &ProtocolError{
			Command:  mnemonic,
			Response: line,
			Reason:   fmt.Sprintf("expected %d fields, got %d", nfields, len(fields)),
		}
	}
	return fields, nil
}

func decodeFields(mnemonic, line string, layout []fieldFmt) ([]int64, error) {
	raw, err := splitRecord(mnemonic, line, len(layout))
	if err != nil {
		return nil, err
	}
	values := make([]int64, len(layout))
	for i, s := range raw {
		v, err := parseField(s, layout[i])
		if err != nil {
			return nil, &ProtocolError{
				Command:  mnemonic,
				Response: line,
				Reason:   fmt.Sprintf("field %d: %v", i+1, err),
			}
		}
		values[i] = v
	}
	return values, nil
}

func encodeFields(mnemonic string, values []int64, layout []fieldFmt) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatField(v, layout[i])
	}
	return mnemonic + " " + strings.Join(parts, ",")
}

func btoi(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// MemoryEntry is one ME record: the full tunable state of a memory channel.
type MemoryEntry struct {
	Channel      int
	RxFreqHz     int64
	Step         int // index into TuningStepsHz
	Shift        int // ShiftNone/ShiftPlus/ShiftMinus
	Reverse      bool
	ToneEnabled  bool
	CTCSSEnabled bool
	DCSEnabled   bool
	ToneIndex    int // index into CTCSSTonesHz
	CTCSSIndex   int // index into CTCSSTonesHz
	DCSIndex     int // index into DCSCodes
	OffsetHz     int64
	Mode         int // ModeFM/ModeNFM/ModeAM
	TxFreqHz     int64
	P15          int // undocumented field, preserved verbatim
	Lockout      bool
}

var meLayout = []fieldFmt{
	{3, false},  // channel
	{10, false}, // rx frequency, Hz
	{1, true},   // tuning step index
	{1, false},  // repeater shift
	{1, false},  // reverse
	{1, false},  // tone encode enabled
	{1, false},  // CTCSS squelch enabled
	{1, false},  // DCS squelch enabled
	{2, false},  // tone index
	{2, false},  // CTCSS index
	{3, false},  // DCS index
	{8, false},  // repeater offset, Hz
	{1, false},  // mode
	{10, false}, // tx frequency, Hz
	{1, false},  // P15
	{1, false},  // lockout
}

// DecodeMemoryEntry parses an ME response line.
func DecodeMemoryEntry(line string) (MemoryEntry, error) {
	v, err := decodeFields("ME", line, meLayout)
	if err != nil {
		return MemoryEntry{}, err
	}
	return MemoryEntry{
		Channel:      int(v[0]),
		RxFreqHz:     v[1],
		Step:         int(v[2]),
		Shift:        int(v[3]),
		Reverse:      v[4] != 0,
		ToneEnabled:  v[5] != 0,
		CTCSSEnabled: v[6] != 0,
		DCSEnabled:   v[7] != 0,
		ToneIndex:    int(v[8]),
		CTCSSIndex:   int(v[9]),
		DCSIndex:     int(v[10]),
		OffsetHz:     v[11],
		Mode:         int(v[12]),
		TxFreqHz:     v[13],
		P15:          int(v[14]),
		Lockout:      v[15] != 0,
	}, nil
}

// Encode renders the entry as an ME command line.
func (e MemoryEntry) Encode() string {
	return encodeFields("ME", []int64{
		int64(e.Channel), e.RxFreqHz, int64(e.Step), int64(e.Shift),
		btoi(e.Reverse), btoi(e.ToneEnabled), btoi(e.CTCSSEnabled), btoi(e.DCSEnabled),
		int64(e.ToneIndex), int64(e.CTCSSIndex), int64(e.DCSIndex), e.OffsetHz,
		int64(e.Mode), e.TxFreqHz, int64(e.P15), btoi(e.Lockout),
	}, meLayout)
}

// VFOEntry is one FO record: the tunable state of a band in native VFO mode.
// The engine tunes through memory channels instead, but the codec supports
// the record for raw reads.
type VFOEntry struct {
	Band         Band
	RxFreqHz     int64
	Step         int
	Shift        int
	Reverse      bool
	ToneEnabled  bool
	CTCSSEnabled bool
	DCSEnabled   bool
	ToneIndex    int
	CTCSSIndex   int
	DCSIndex     int
	OffsetHz     int64
	Mode         int
}

var foLayout = append([]fieldFmt{{1, false}}, meLayout[1:13]...)

// DecodeVFOEntry parses an FO response line.
func DecodeVFOEntry(line string) (VFOEntry, error) {
	v, err := decodeFields("FO", line, foLayout)
	if err != nil {
		return VFOEntry{}, err
	}
	return VFOEntry{
		Band:         Band(v[0]),
		RxFreqHz:     v[1],
		Step:         int(v[2]),
		Shift:        int(v[3]),
		Reverse:      v[4] != 0,
		ToneEnabled:  v[5] != 0,
		CTCSSEnabled: v[6] != 0,
		DCSEnabled:   v[7] != 0,
		ToneIndex:    int(v[8]),
		CTCSSIndex:   int(v[9]),
		DCSIndex:     int(v[10]),
		OffsetHz:     v[11],
		Mode:         int(v[12]),
	}, nil
}

// Encode renders the entry as an FO command line.
func (e VFOEntry) Encode() string {
	return encodeFields("FO", []int64{
		int64(e.Band), e.RxFreqHz, int64(e.Step), int64(e.Shift),
		btoi(e.Reverse), btoi(e.ToneEnabled), btoi(e.CTCSSEnabled), btoi(e.DCSEnabled),
		int64(e.ToneIndex), int64(e.CTCSSIndex), int64(e.DCSIndex), e.OffsetHz,
		int64(e.Mode),
	}, foLayout)
}

// BandMode is one VM record: which of VFO/Memory/Call/WX mode a band is in.
type BandMode struct {
	Band Band
	Mode int
}

var vmLayout = []fieldFmt{{1, false}, {1, false}}

// DecodeBandMode parses a VM response line.
func DecodeBandMode(line string) (BandMode, error) {
	v, err := decodeFields("VM", line, vmLayout)
	if err != nil {
		return BandMode{}, err
	}
	return BandMode{Band: Band(v[0]), Mode: int(v[1])}, nil
}

// Encode renders the record as a VM command line.
func (m BandMode) Encode() string {
	return encodeFields("VM", []int64{int64(m.Band), int64(m.Mode)}, vmLayout)
}

// ControlPTT is one BC record: which band the controls address and which
// band keys the transmitter. They differ during split operation.
type ControlPTT struct {
	Control Band
	PTT     Band
}

var bcLayout = []fieldFmt{{1, false}, {1, false}}

// DecodeControlPTT parses a BC response line.
func DecodeControlPTT(line string) (ControlPTT, error) {
	v, err := decodeFields("BC", line, bcLayout)
	if err != nil {
		return ControlPTT{}, err
	}
	return ControlPTT{Control: Band(v[0]), PTT: Band(v[1])}, nil
}

// Encode renders the record as a BC command line.
func (c ControlPTT) Encode() string {
	return encodeFields("BC", []int64{int64(c.Control), int64(c.PTT)}, bcLayout)
}

// ChannelSelect is one MR record: the memory channel a band is parked on.
type ChannelSelect struct {
	Band    Band
	Channel int
}

var mrLayout = []fieldFmt{{1, false}, {3, false}}

// DecodeChannelSelect parses an MR response line.
func DecodeChannelSelect(line string) (ChannelSelect, error) {
	v, err := decodeFields("MR", line, mrLayout)
	if err != nil {
		return ChannelSelect{}, err
	}
	return ChannelSelect{Band: Band(v[0]), Channel: int(v[1])}, nil
}

// Encode renders the record as an MR command line.
func (s ChannelSelect) Encode() string {
	return encodeFields("MR", []int64{int64(s.Band), int64(s.Channel)}, mrLayout)
}

// ChannelName is one MN record: a channel's display label.
type ChannelName struct {
	Channel int
	Name    string
}

// DecodeChannelName parses an MN response line. A bare "MN ccc" reply means
// the channel has no name.
func DecodeChannelName(line string) (ChannelName, error) {
	payload, ok := strings.CutPrefix(line, "MN ")
	if !ok {
		return ChannelName{}, &ProtocolError{Command: "MN", Response: line, Reason: "missing MN prefix"}
	}
	num, name, _ := strings.Cut(payload, ",")
	ch, err := strconv.Atoi(num)
	if err != nil {
		return ChannelName{}, &ProtocolError{Command: "MN", Response: line, Reason: "bad channel number"}
	}
	return ChannelName{Channel: ch, Name: name}, nil
}

// Encode renders the record as an MN command line.
func (n ChannelName) Encode() string {
	return fmt.Sprintf("MN %03d,%s", n.Channel, n.Name)
}

// MenuSettingsFieldCount is the number of positional fields in an MU record.
const MenuSettingsFieldCount = 42

// MenuSettings is one MU record. The radio's menu has dozens of scalar
// settings in mixed decimal and hex; the engine only interprets a handful,
// so fields are kept as raw strings and preserved verbatim across partial
// updates.
type MenuSettings struct {
	fields []string
}

// Well-known MU field positions (zero-based).
const (
	muBeep               = 0
	muVHFAIP             = 10
	muUHFAIP             = 11
	muAutoRepeaterOffset = 22
	muBrightness         = 25
	muScanResume         = 35
	muAutoPowerOff       = 36
	muExtDataBand        = 37
)

// Scan-resume values for the MU record.
const (
	ScanResumeTime    = 0
	ScanResumeCarrier = 1
	ScanResumeSeek    = 2
)

// Auto-power-off values map to {off, 30, 60, 90, 120, 180} minutes.
const autoPowerOff180 = 5

// External data band values.
const (
	ExtDataBandA      = 0
	ExtDataBandB      = 1
	ExtDataBandTXARXB = 2
	ExtDataBandTXBRXA = 3
)

// DecodeMenuSettings parses an MU response line.
func DecodeMenuSettings(line string) (MenuSettings, error) {
	fields, err := splitRecord("MU", line, MenuSettingsFieldCount)
	if err != nil {
		return MenuSettings{}, err
	}
	return MenuSettings{fields: fields}, nil
}

// Encode renders the settings as an MU command line.
func (m MenuSettings) Encode() string {
	return "MU " + strings.Join(m.fields, ",")
}

func (m MenuSettings) intField(i int) int {
	v, err := strconv.ParseInt(m.fields[i], 10, 32)
	if err != nil {
		return 0
	}
	return int(v)
}

func (m *MenuSettings) setIntField(i, v, width int) {
	m.fields[i] = fmt.Sprintf("%0*d", width, v)
}

// Beep reports whether the key beep is enabled.
func (m MenuSettings) Beep() bool { return m.intField(muBeep) != 0 }

// SetBeep enables or disables the key beep.
func (m *MenuSettings) SetBeep(on bool) { m.setIntField(muBeep, int(btoi(on)), 1) }

// Brightness returns the display brightness level, 0..8.
func (m MenuSettings) Brightness() int { return m.intField(muBrightness) }

// SetBrightness sets the display brightness level, 0..8.
func (m *MenuSettings) SetBrightness(level int) { m.setIntField(muBrightness, level, 1) }

// AutoPowerOffMinutes returns the auto power-off timer in minutes, 0 for off.
func (m MenuSettings) AutoPowerOffMinutes() int {
	v := m.intField(muAutoPowerOff)
	if v == autoPowerOff180 {
		return 180
	}
	return v * 30
}

// SetAutoPowerOffMinutes sets the auto power-off timer, rounding up to the
// next supported duration.
func (m *MenuSettings) SetAutoPowerOffMinutes(minutes int) {
	var v int
	switch {
	case minutes > 120:
		v = autoPowerOff180
	case minutes > 90:
		v = 4
	case minutes > 60:
		v = 3
	case minutes > 30:
		v = 2
	case minutes > 0:
		v = 1
	}
	m.setIntField(muAutoPowerOff, v, 1)
}

// AutoRepeaterOffset reports whether automatic repeater offset is enabled.
func (m MenuSettings) AutoRepeaterOffset() bool { return m.intField(muAutoRepeaterOffset) != 0 }

// SetAutoRepeaterOffset enables or disables automatic repeater offset.
func (m *MenuSettings) SetAutoRepeaterOffset(on bool) {
	m.setIntField(muAutoRepeaterOffset, int(btoi(on)), 1)
}

// AIP reports whether the advanced intercept point is enabled on either band.
func (m MenuSettings) AIP() bool {
	return m.intField(muVHFAIP) != 0 || m.intField(muUHFAIP) != 0
}

// SetAIP enables or disables the advanced intercept point on both bands.
func (m *MenuSettings) SetAIP(on bool) {
	m.setIntField(muVHFAIP, int(btoi(on)), 1)
	m.setIntField(muUHFAIP, int(btoi(on)), 1)
}

// ScanResume returns the scan-resume mode.
func (m MenuSettings) ScanResume() int { return m.intField(muScanResume) }

// SetScanResume sets the scan-resume mode.
func (m *MenuSettings) SetScanResume(mode int) { m.setIntField(muScanResume, mode, 1) }

// ExtDataBand returns the band assigned to the external data connector.
func (m MenuSettings) ExtDataBand() int { return m.intField(muExtDataBand) }

// SetExtDataBand assigns the external data connector band.
func (m *MenuSettings) SetExtDataBand(v int) error {
	if v < ExtDataBandA || v > ExtDataBandTXBRXA {
		return &UnsupportedValueError{What: "external data band", Value: v}
	}
	m.setIntField(muExtDataBand, v, 1)
	return nil
}
