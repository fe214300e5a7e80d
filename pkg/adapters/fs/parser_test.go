package fs

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cadence/pkg/core"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"True", true, false},
		{"TRUE", true, false},
		{"false", false, false},
		{"False", false, false},
		{"1", true, false},
		{"0", false, false},
		{"-3", true, false},
		{" 1 ", true, false},
		{"garbage", false, true},
		{"", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseBool(tc.in)
			assert.Equal(t, tc.want, got)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("Reads All Fields", func(t *testing.T) {
		doc := `<?xml version="1.0" encoding="UTF-8"?>
<cadence version="1">
  <profile id="a">
    <header>
      <title>Warmup &amp; Co</title>
      <description>slow start</description>
    </header>
    <content>
      <tempo> 90 </tempo>
      <meter-section>
        <enabled>false</enabled>
        <meter-select>meter-3-compound</meter-select>
        <meter id="meter-3-compound">
          <beats>3</beats>
          <division>3</division>
          <accent level="3"/><accent level="1"/><accent level="1"/>
          <accent level="2"/><accent level="1"/><accent level="1"/>
          <accent level="2"/><accent level="1"/><accent level="0"/>
        </meter>
      </meter-section>
      <trainer-section>
        <enabled>1</enabled>
        <start>60</start>
        <target>100</target>
        <accel>5</accel>
      </trainer-section>
    </content>
  </profile>
</cadence>`

		col, warnings, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Equal(t, []core.Identifier{"a"}, col.Order())

		p, err := col.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "Warmup & Co", p.Header.Title)
		assert.Equal(t, "slow start", p.Header.Description)
		assert.Equal(t, 90, p.Content.Tempo)
		assert.False(t, p.Content.MeterEnabled)
		assert.Equal(t, core.Meter3Compound, p.Content.MeterSelect)
		assert.Equal(t, core.Meter{
			Beats:    3,
			Division: 3,
			Accents:  []core.Accent{3, 1, 1, 2, 1, 1, 2, 1, 0},
		}, p.Content.Meters[core.Meter3Compound])
		assert.Equal(t, core.Trainer{Enabled: true, Start: 60, Target: 100, Accel: 5}, p.Content.Trainer)

		// Slots absent from the file keep their defaults.
		assert.Equal(t, core.DefaultContent().Meters[core.Meter1Simple], p.Content.Meters[core.Meter1Simple])
	})

	t.Run("Duplicate IDs Merge At First Position", func(t *testing.T) {
		doc := `<cadence>
  <profile id="x"><header><title>first</title></header></profile>
  <profile id="y"><header><title>other</title></header></profile>
  <profile id="x"><content><tempo>200</tempo></content></profile>
</cadence>`

		col, _, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, []core.Identifier{"x", "y"}, col.Order())

		p, err := col.Get("x")
		require.NoError(t, err)
		assert.Equal(t, "first", p.Header.Title)
		assert.Equal(t, 200, p.Content.Tempo)
	})

	t.Run("Names Are Case Insensitive", func(t *testing.T) {
		doc := `<Cadence><PROFILE ID="c"><Content><Tempo>77</Tempo>
<Meter-Section><Meter Id="METER-CUSTOM"><Beats>5</Beats><Division>0</Division></Meter></Meter-Section>
</Content></PROFILE></Cadence>`

		col, _, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		p, err := col.Get("c")
		require.NoError(t, err)
		assert.Equal(t, 77, p.Content.Tempo)
		assert.Equal(t, 5, p.Content.Meters[core.MeterCustom].Beats)
		assert.Len(t, p.Content.Meters[core.MeterCustom].Accents, 5)
	})

	t.Run("Bad Field Is Contained", func(t *testing.T) {
		doc := `<cadence><profile id="p"><content>
<tempo>fast</tempo>
<trainer-section><enabled>maybe</enabled><start>70</start></trainer-section>
</content></profile></cadence>`

		col, warnings, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, warnings, 2)

		var convErr *core.ConversionError
		require.True(t, errors.As(warnings[0], &convErr))
		assert.Equal(t, core.Identifier("p"), convErr.Profile)
		assert.Equal(t, "tempo", convErr.Field)
		assert.Equal(t, "fast", convErr.Value)

		p, err := col.Get("p")
		require.NoError(t, err)
		assert.Equal(t, core.DefaultTempo, p.Content.Tempo, "unparsable tempo keeps the default")
		assert.False(t, p.Content.Trainer.Enabled, "unparsable boolean reads as false")
		assert.Equal(t, 70, p.Content.Trainer.Start, "later fields still import")
	})

	t.Run("Unknown Elements And Slots Are Ignored", func(t *testing.T) {
		doc := `<cadence><extra>x</extra><profile id="u" colour="red"><content>
<tempo>100</tempo><swing>8</swing>
<notes><tempo>1</tempo></notes>
<meter-section><meter id="meter-99"><beats>7</beats></meter></meter-section>
</content></profile></cadence>`

		col, warnings, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, warnings, 1)
		assert.ErrorIs(t, warnings[0], core.ErrUnknownMeter)

		p, err := col.Get("u")
		require.NoError(t, err)
		assert.Equal(t, 100, p.Content.Tempo, "tempo nested in an unknown block must not leak")
		assert.Equal(t, core.DefaultContent().Meters, p.Content.Meters)
	})

	t.Run("Unknown Child Keeps Surrounding Text", func(t *testing.T) {
		doc := `<cadence><profile id="w"><header><title>Warm<b/>up</title>` +
			`<description>one <i>two</i> three</description></header></profile></cadence>`

		col, _, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		p, err := col.Get("w")
		require.NoError(t, err)
		assert.Equal(t, "Warmup", p.Header.Title)
		assert.Equal(t, "one  three", p.Header.Description, "text inside the unknown child is dropped")
	})

	t.Run("ID Is Read Verbatim", func(t *testing.T) {
		doc := `<cadence><profile id=" padded&#x9;"><header><title>p</title></header></profile></cadence>`

		col, _, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, []core.Identifier{" padded\t"}, col.Order())
	})

	t.Run("Profile Without ID Is Skipped", func(t *testing.T) {
		doc := `<cadence><profile><header><title>lost</title></header></profile><profile id="k"/></cadence>`

		col, warnings, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Len(t, warnings, 1)
		assert.Equal(t, []core.Identifier{"k"}, col.Order())
	})

	t.Run("Accent Pattern Is Normalized", func(t *testing.T) {
		doc := `<cadence><profile id="n"><content><meter-section>
<meter id="meter-2-simple"><beats>2</beats><division>2</division>
<accent level="3"/><accent level="9"/><accent level="1"/><accent level="1"/><accent level="1"/><accent level="1"/>
</meter>
<meter id="meter-1-simple"><beats>2</beats><division>2</division><accent level="1"/></meter>
</meter-section></content></profile></cadence>`

		col, _, err := decode(strings.NewReader(doc))
		require.NoError(t, err)
		p, err := col.Get("n")
		require.NoError(t, err)

		assert.Equal(t, []core.Accent{3, 3, 1, 1}, p.Content.Meters[core.Meter2Simple].Accents, "truncated and clamped")
		assert.Equal(t, []core.Accent{1, 1, 2, 1}, p.Content.Meters[core.Meter1Simple].Accents, "padded with defaults")
	})

	t.Run("Malformed Document Fails", func(t *testing.T) {
		_, _, err := decode(strings.NewReader(`<cadence><profile id="a"><header>`))
		assert.Error(t, err)

		_, _, err = decode(strings.NewReader(`<cadence><profile id="a"></header></cadence>`))
		assert.Error(t, err)
	})

	t.Run("Empty Input Is Empty Collection", func(t *testing.T) {
		col, _, err := decode(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, col.Len())
	})
}
