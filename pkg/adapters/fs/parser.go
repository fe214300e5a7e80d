package fs

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/cadence/pkg/core"
)

// Element and attribute names of the on-disk format. Reads compare them
// case-insensitively; writes use them as-is.
const (
	elemProfile        = "profile"
	elemHeader         = "header"
	elemTitle          = "title"
	elemDescription    = "description"
	elemContent        = "content"
	elemTempo          = "tempo"
	elemMeterSection   = "meter-section"
	elemEnabled        = "enabled"
	elemMeterSelect    = "meter-select"
	elemMeter          = "meter"
	elemBeats          = "beats"
	elemDivision       = "division"
	elemAccent         = "accent"
	elemTrainerSection = "trainer-section"
	elemStart          = "start"
	elemTarget         = "target"
	elemAccel          = "accel"

	attrID      = "id"
	attrLevel   = "level"
	attrVersion = "version"
)

// Paths relative to the root element, as seen when an element closes.
const (
	pathProfile      = elemProfile
	pathHeader       = pathProfile + "/" + elemHeader
	pathContent      = pathProfile + "/" + elemContent
	pathMeterSection = pathContent + "/" + elemMeterSection
	pathMeter        = pathMeterSection + "/" + elemMeter
	pathTrainer      = pathContent + "/" + elemTrainerSection
)

// parseContext is the explicit state threaded through every token of one
// import. Records are addressed by key in col, never by pointer.
type parseContext struct {
	col   *core.Collection
	stack []frame // open elements; stack[0] is the root

	profile core.Identifier // "" outside a usable profile element

	slot    core.MeterKey
	inMeter bool // inside a meter element whose id resolved
	scratch core.Meter

	warnings []error
}

// frame is one open element. Text is collected per element so an unknown
// child never cuts off the text around it.
type frame struct {
	name string // lowercased
	text []byte
}

// decode runs the streaming parse over r. A structural failure returns an
// error and must be treated as "no data"; field-level conversion failures are
// returned as warnings and never stop the import.
func decode(r io.Reader) (*core.Collection, []error, error) {
	pc := &parseContext{col: core.NewCollection()}
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pc.warnings, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			pc.start(t)
		case xml.EndElement:
			pc.end()
		case xml.CharData:
			if n := len(pc.stack); n > 0 {
				pc.stack[n-1].text = append(pc.stack[n-1].text, t...)
			}
		}
	}
	return pc.col, pc.warnings, nil
}

// path joins the open elements below the root.
func (pc *parseContext) path() string {
	if len(pc.stack) <= 1 {
		return ""
	}
	names := make([]string, 0, len(pc.stack)-1)
	for _, f := range pc.stack[1:] {
		names = append(names, f.name)
	}
	return strings.Join(names, "/")
}

func (pc *parseContext) start(t xml.StartElement) {
	name := strings.ToLower(t.Name.Local)

	switch {
	case name == elemProfile && len(pc.stack) == 1:
		pc.profile = core.Identifier(attr(t, attrID))
		if pc.profile == "" {
			pc.warn("", elemProfile, "", fmt.Errorf("missing %s attribute, block ignored", attrID))
			break
		}
		// First occurrence fixes the order position; later blocks merge.
		pc.col.Update(pc.profile, func(*core.Profile) {})

	case name == elemMeter && pc.profile != "" && pc.path() == pathMeterSection:
		id := attr(t, attrID)
		pc.slot, pc.inMeter = core.ParseMeterKey(id)
		pc.scratch = core.Meter{}
		if !pc.inMeter {
			pc.warn(pc.profile, elemMeter, id, core.ErrUnknownMeter)
		}

	case name == elemAccent && pc.inMeter && pc.path() == pathMeter:
		raw := attr(t, attrLevel)
		level, err := parseInt(raw)
		if err != nil {
			pc.warn(pc.profile, elemAccent, raw, err)
			break
		}
		pc.scratch.Accents = append(pc.scratch.Accents, core.Accent(level))
	}

	pc.stack = append(pc.stack, frame{name: name})
}

func (pc *parseContext) end() {
	if len(pc.stack) == 0 {
		return
	}
	top := pc.stack[len(pc.stack)-1]
	name, text := top.name, string(top.text)
	pc.stack = pc.stack[:len(pc.stack)-1]
	parent := pc.path()

	if pc.profile == "" {
		return
	}

	switch {
	case name == elemProfile && len(pc.stack) == 1:
		pc.profile = ""
		pc.inMeter = false
		return
	case name == elemMeter && parent == pathMeterSection:
		if pc.inMeter {
			slot, meter := pc.slot, pc.scratch.Normalize()
			pc.col.Update(pc.profile, func(p *core.Profile) { p.Content.Meters[slot] = meter })
		}
		pc.inMeter = false
		return
	}

	pc.field(parent, name, text)
}

// field routes leaf text by (enclosing block, element name).
func (pc *parseContext) field(parent, name, text string) {
	id := pc.profile
	update := func(fn func(*core.Profile)) { pc.col.Update(id, fn) }

	switch parent + "/" + name {
	case pathHeader + "/" + elemTitle:
		update(func(p *core.Profile) { p.Header.Title = text })
	case pathHeader + "/" + elemDescription:
		update(func(p *core.Profile) { p.Header.Description = text })

	case pathContent + "/" + elemTempo:
		if n, ok := pc.integer(name, text); ok {
			update(func(p *core.Profile) { p.Content.Tempo = n })
		}

	case pathMeterSection + "/" + elemEnabled:
		b := pc.boolean(name, text)
		update(func(p *core.Profile) { p.Content.MeterEnabled = b })
	case pathMeterSection + "/" + elemMeterSelect:
		key, ok := core.ParseMeterKey(text)
		if !ok {
			pc.warn(id, name, text, core.ErrUnknownMeter)
			return
		}
		update(func(p *core.Profile) { p.Content.MeterSelect = key })

	case pathMeter + "/" + elemBeats:
		if n, ok := pc.integer(name, text); ok && pc.inMeter {
			pc.scratch.Beats = n
		}
	case pathMeter + "/" + elemDivision:
		if n, ok := pc.integer(name, text); ok && pc.inMeter {
			pc.scratch.Division = n
		}

	case pathTrainer + "/" + elemEnabled:
		b := pc.boolean(name, text)
		update(func(p *core.Profile) { p.Content.Trainer.Enabled = b })
	case pathTrainer + "/" + elemStart:
		if n, ok := pc.integer(name, text); ok {
			update(func(p *core.Profile) { p.Content.Trainer.Start = n })
		}
	case pathTrainer + "/" + elemTarget:
		if n, ok := pc.integer(name, text); ok {
			update(func(p *core.Profile) { p.Content.Trainer.Target = n })
		}
	case pathTrainer + "/" + elemAccel:
		if n, ok := pc.integer(name, text); ok {
			update(func(p *core.Profile) { p.Content.Trainer.Accel = n })
		}
	}
}

func (pc *parseContext) integer(field, text string) (int, bool) {
	n, err := parseInt(text)
	if err != nil {
		pc.warn(pc.profile, field, text, err)
		return 0, false
	}
	return n, true
}

func (pc *parseContext) boolean(field, text string) bool {
	b, err := parseBool(text)
	if err != nil {
		pc.warn(pc.profile, field, text, err)
	}
	return b
}

func (pc *parseContext) warn(id core.Identifier, field, value string, err error) {
	pc.warnings = append(pc.warnings, &core.ConversionError{
		Profile: id,
		Field:   field,
		Value:   strings.TrimSpace(value),
		Err:     err,
	})
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}
