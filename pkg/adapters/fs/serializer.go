package fs

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/aretw0/cadence/pkg/core"
)

const indentUnit = "  "

// xmlWriter emits the fixed-layout document. Writes to a bytes.Buffer cannot
// fail, so the writer has no error state.
type xmlWriter struct {
	buf   bytes.Buffer
	depth int
}

func (w *xmlWriter) indent() {
	w.buf.WriteString(strings.Repeat(indentUnit, w.depth))
}

func (w *xmlWriter) tag(name string, attrs []string, selfClose bool) {
	w.indent()
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	for i := 0; i+1 < len(attrs); i += 2 {
		w.buf.WriteByte(' ')
		w.buf.WriteString(attrs[i])
		w.buf.WriteString(`="`)
		escape(&w.buf, attrs[i+1])
		w.buf.WriteByte('"')
	}
	if selfClose {
		w.buf.WriteString("/>\n")
		return
	}
	w.buf.WriteString(">\n")
	w.depth++
}

func (w *xmlWriter) open(name string, attrs ...string) { w.tag(name, attrs, false) }

func (w *xmlWriter) empty(name string, attrs ...string) { w.tag(name, attrs, true) }

func (w *xmlWriter) close(name string) {
	w.depth--
	w.indent()
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteString(">\n")
}

func (w *xmlWriter) leaf(name, text string) {
	w.indent()
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.buf.WriteByte('>')
	escape(&w.buf, text)
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteString(">\n")
}

func escape(buf *bytes.Buffer, s string) {
	// EscapeText only fails when the destination writer fails.
	_ = xml.EscapeText(buf, []byte(s))
}

// encode renders the whole collection in order-list order.
func encode(col *core.Collection, product, version string) []byte {
	w := &xmlWriter{}
	w.buf.WriteString(xml.Header)
	w.open(product, attrVersion, version)

	col.Each(func(id core.Identifier, p core.Profile) {
		w.open(elemProfile, attrID, string(id))

		w.open(elemHeader)
		w.leaf(elemTitle, p.Header.Title)
		w.leaf(elemDescription, p.Header.Description)
		w.close(elemHeader)

		c := p.Content
		w.open(elemContent)
		w.leaf(elemTempo, strconv.Itoa(c.Tempo))

		w.open(elemMeterSection)
		w.leaf(elemEnabled, formatBool(c.MeterEnabled))
		w.leaf(elemMeterSelect, c.MeterSelect.String())
		for i, m := range c.Meters {
			encodeMeter(w, core.MeterKey(i), m)
		}
		w.close(elemMeterSection)

		w.open(elemTrainerSection)
		w.leaf(elemEnabled, formatBool(c.Trainer.Enabled))
		w.leaf(elemStart, strconv.Itoa(c.Trainer.Start))
		w.leaf(elemTarget, strconv.Itoa(c.Trainer.Target))
		w.leaf(elemAccel, strconv.Itoa(c.Trainer.Accel))
		w.close(elemTrainerSection)

		w.close(elemContent)
		w.close(elemProfile)
	})

	w.close(product)
	return w.buf.Bytes()
}

func encodeMeter(w *xmlWriter, key core.MeterKey, m core.Meter) {
	w.open(elemMeter, attrID, key.String())
	w.leaf(elemBeats, strconv.Itoa(m.Beats))
	w.leaf(elemDivision, strconv.Itoa(m.Division))
	for _, a := range m.Accents {
		w.empty(elemAccent, attrLevel, strconv.Itoa(int(a)))
	}
	w.close(elemMeter)
}
