// Package core holds the profile record model, the storage contract that every
// persistence backend implements, and the Manager that consumers talk to.
package core

import (
	"strings"
	"unicode/utf8"
)

// Identifier is the opaque, stable key of a profile.
type Identifier string

// String implements fmt.Stringer.
func (id Identifier) String() string { return string(id) }

// Header is the display metadata of a profile.
type Header struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Primer is the lightweight listing summary of a profile.
type Primer struct {
	ID     Identifier `json:"id" yaml:"id"`
	Header Header     `json:"header" yaml:"header"`
}

// Accent is the emphasis level of one subdivision pulse.
type Accent int

const (
	AccentOff Accent = iota
	AccentWeak
	AccentMedium
	AccentStrong
)

// Clamp maps any ordinal into the known accent range.
func (a Accent) Clamp() Accent {
	switch {
	case a < AccentOff:
		return AccentOff
	case a > AccentStrong:
		return AccentStrong
	default:
		return a
	}
}

func (a Accent) String() string {
	switch a {
	case AccentOff:
		return "off"
	case AccentWeak:
		return "weak"
	case AccentMedium:
		return "medium"
	case AccentStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// Bounds applied to meters so a hand-edited file cannot request huge patterns.
const (
	MaxBeats    = 64
	MaxDivision = 16
)

// Meter is a time signature: beats per measure, a subdivision (0 meaning none)
// and one accent per subdivided pulse.
type Meter struct {
	Beats    int      `json:"beats" yaml:"beats"`
	Division int      `json:"division" yaml:"division"`
	Accents  []Accent `json:"accents" yaml:"accents"`
}

// Pulses returns the number of subdivided pulses in one measure.
func (m Meter) Pulses() int {
	return m.Beats * max(m.Division, 1)
}

// Normalize clamps beats and division into range and makes the accent pattern
// exactly Pulses() long: extra accents are truncated, missing ones are filled
// with the default emphasis for their position.
func (m Meter) Normalize() Meter {
	m.Beats = min(max(m.Beats, 1), MaxBeats)
	m.Division = min(max(m.Division, 0), MaxDivision)

	n := m.Pulses()
	accents := make([]Accent, n)
	for i := range accents {
		if i < len(m.Accents) {
			accents[i] = m.Accents[i].Clamp()
		} else {
			accents[i] = defaultAccent(i, m.Division)
		}
	}
	m.Accents = accents
	return m
}

// Clone returns a copy that shares no memory with m.
func (m Meter) Clone() Meter {
	if m.Accents != nil {
		m.Accents = append([]Accent(nil), m.Accents...)
	}
	return m
}

func defaultAccent(pulse, division int) Accent {
	switch {
	case pulse == 0:
		return AccentStrong
	case pulse%max(division, 1) == 0:
		return AccentMedium
	default:
		return AccentWeak
	}
}

// NewMeter builds a normalized meter with the default accent pattern.
func NewMeter(beats, division int) Meter {
	return Meter{Beats: beats, Division: division}.Normalize()
}

// MeterKey selects one of the nine meter slots of a profile.
type MeterKey int

const (
	Meter1Simple MeterKey = iota
	Meter2Simple
	Meter3Simple
	Meter4Simple
	Meter1Compound
	Meter2Compound
	Meter3Compound
	Meter4Compound
	MeterCustom

	// MeterSlots is the number of meter slots in Content.
	MeterSlots = 9
)

var meterKeyNames = [MeterSlots]string{
	"meter-1-simple",
	"meter-2-simple",
	"meter-3-simple",
	"meter-4-simple",
	"meter-1-compound",
	"meter-2-compound",
	"meter-3-compound",
	"meter-4-compound",
	"meter-custom",
}

// String returns the on-disk name of the slot.
func (k MeterKey) String() string {
	if !k.Valid() {
		return ""
	}
	return meterKeyNames[k]
}

// Valid reports whether k names one of the nine slots.
func (k MeterKey) Valid() bool {
	return k >= 0 && int(k) < MeterSlots
}

// ParseMeterKey resolves a slot name case-insensitively.
func ParseMeterKey(name string) (MeterKey, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range meterKeyNames {
		if n == name {
			return MeterKey(i), true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (k MeterKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MeterKey) UnmarshalText(b []byte) error {
	key, ok := ParseMeterKey(string(b))
	if !ok {
		return &ConversionError{Field: "meter-select", Value: string(b), Err: ErrUnknownMeter}
	}
	*k = key
	return nil
}

// Trainer is the tempo trainer: it ramps from Start to Target by Accel.
type Trainer struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Start   int  `json:"start" yaml:"start"`
	Target  int  `json:"target" yaml:"target"`
	Accel   int  `json:"accel" yaml:"accel"`
}

// Content is the musical configuration of a profile.
type Content struct {
	Tempo        int               `json:"tempo" yaml:"tempo"`
	MeterEnabled bool              `json:"meter_enabled" yaml:"meter_enabled"`
	MeterSelect  MeterKey          `json:"meter_select" yaml:"meter_select"`
	Meters       [MeterSlots]Meter `json:"meters" yaml:"meters"`
	Trainer      Trainer           `json:"trainer" yaml:"trainer"`
}

// Meter returns the meter stored in slot k.
func (c Content) Meter(k MeterKey) Meter {
	if !k.Valid() {
		return Meter{}
	}
	return c.Meters[k]
}

// Normalize applies Meter.Normalize to every slot and resets an invalid selection.
func (c Content) Normalize() Content {
	for i := range c.Meters {
		c.Meters[i] = c.Meters[i].Normalize()
	}
	if !c.MeterSelect.Valid() {
		c.MeterSelect = Meter4Simple
	}
	return c
}

// Clone deep-copies the accent patterns.
func (c Content) Clone() Content {
	for i := range c.Meters {
		c.Meters[i] = c.Meters[i].Clone()
	}
	return c
}

// Defaults for a freshly created profile.
const (
	DefaultTempo        = 120
	DefaultTrainerStart = 80
	DefaultTrainerEnd   = 160
	DefaultTrainerAccel = 10
)

// DefaultHeader returns the header of a new profile.
func DefaultHeader() Header {
	return Header{}
}

// DefaultContent returns the content of a new profile: simple slots n beats in
// duple subdivision, compound slots n beats in triple subdivision and a plain
// 4-beat custom slot.
func DefaultContent() Content {
	c := Content{
		Tempo:        DefaultTempo,
		MeterEnabled: true,
		MeterSelect:  Meter4Simple,
		Trainer: Trainer{
			Start:  DefaultTrainerStart,
			Target: DefaultTrainerEnd,
			Accel:  DefaultTrainerAccel,
		},
	}
	for i := 0; i < 4; i++ {
		c.Meters[Meter1Simple+MeterKey(i)] = NewMeter(i+1, 2)
		c.Meters[Meter1Compound+MeterKey(i)] = NewMeter(i+1, 3)
	}
	c.Meters[MeterCustom] = NewMeter(4, 0)
	return c
}

// Profile is a full record. It has value semantics; use Clone before sharing
// accent slices across layers.
type Profile struct {
	Header  Header  `json:"header" yaml:"header"`
	Content Content `json:"content" yaml:"content"`
}

// DefaultProfile returns a profile made of DefaultHeader and DefaultContent.
func DefaultProfile() Profile {
	return Profile{Header: DefaultHeader(), Content: DefaultContent()}
}

// Clone returns a deep copy of p.
func (p Profile) Clone() Profile {
	p.Content = p.Content.Clone()
	return p
}

// ValidateRecord checks that id and the header text survive a round trip
// through any backend unchanged. Text must be valid UTF-8 free of control
// characters other than tab, newline and carriage return.
func ValidateRecord(id Identifier, h Header) error {
	if id == "" {
		return ErrEmptyID
	}
	fields := []struct{ name, text string }{
		{"id", string(id)},
		{"title", h.Title},
		{"description", h.Description},
	}
	for _, f := range fields {
		if !ValidText(f.text) {
			return &ConversionError{Profile: id, Field: f.name, Value: f.text, Err: ErrInvalidText}
		}
	}
	return nil
}

// ValidText reports whether s holds only characters a markup document can
// carry unchanged.
func ValidText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return false
		}
	}
	return true
}
