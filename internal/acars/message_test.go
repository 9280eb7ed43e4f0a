package acars

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt64_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlexInt64
	}{
		{"integer", `123`, 123},
		{"string number", `"456"`, 456},
		{"empty string", `""`, 0},
		{"negative string", `"-200"`, -200},
		{"invalid string", `"not a number"`, 0},
		{"null", `null`, 0},
		{"object", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexInt64
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNATSWrapper_ToMessage(t *testing.T) {
	assert.Nil(t, (&NATSWrapper{}).ToMessage())

	w := &NATSWrapper{
		Source:  &NATSSource{Name: "feeder-7"},
		Station: &Station{Ident: "GS-LHR", NearestAirportIcao: "EGLL"},
		Airframe: &struct {
			Tail string `json:"tail"`
		}{Tail: "G-EUPT"},
		Message: &NATSInner{
			ID:    99,
			Label: "RA",
			Text:  "METAR EGLL 151850Z 24010KT 9999 FEW030 15/09 Q1019",
		},
	}
	msg := w.ToMessage()
	require.NotNil(t, msg)
	assert.Equal(t, FlexInt64(99), msg.ID)
	assert.Equal(t, "G-EUPT", msg.Tail)
	assert.Equal(t, "feeder-7", msg.Source)
	assert.Equal(t, "EGLL", msg.Station.NearestAirportIcao)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name       string
		payload    string
		wantFormat Format
		wantLabel  string
		wantText   string
		wantTail   string
	}{
		{
			name:       "nats wrapper",
			payload:    `{"source":{"name":"acarshub"},"airframe":{"tail":"VH-OQA"},"message":{"id":"12","label":"RA","text":"YSSY 151830Z 18012KT CAVOK 20/10 Q1020"}}`,
			wantFormat: FormatNATS,
			wantLabel:  "RA",
			wantText:   "YSSY 151830Z 18012KT CAVOK 20/10 Q1020",
			wantTail:   "VH-OQA",
		},
		{
			name:       "flat",
			payload:    `{"id":3,"label":"C1","text":"METAR KJFK 151851Z 31015KT 10SM FEW250 12/M03 A3012","tail":"N123AA"}`,
			wantFormat: FormatFlat,
			wantLabel:  "C1",
			wantText:   "METAR KJFK 151851Z 31015KT 10SM FEW250 12/M03 A3012",
			wantTail:   "N123AA",
		},
		{
			name:       "dumpvdl2",
			payload:    `{"vdl2":{"app":{"name":"dumpvdl2"},"freq":136975000,"t":{"sec":1700000000,"usec":0},"avlc":{"acars":{"reg":".D-AIZZ","label":"RA","msg_text":"EDDF 151850Z 25008KT 9999 FEW040 14/08 Q1016"}}}}`,
			wantFormat: FormatNested,
			wantLabel:  "RA",
			wantText:   "EDDF 151850Z 25008KT 9999 FEW040 14/08 Q1016",
			wantTail:   ".D-AIZZ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, format := Decode([]byte(tt.payload))
			require.NotNil(t, msg)
			assert.Equal(t, tt.wantFormat, format)
			assert.Equal(t, tt.wantLabel, msg.Label)
			assert.Equal(t, tt.wantText, msg.Text)
			assert.Equal(t, tt.wantTail, msg.Tail)
		})
	}

	t.Run("nested frequency and time", func(t *testing.T) {
		msg, _ := Decode([]byte(tests[2].payload))
		assert.InDelta(t, 136.975, msg.Frequency, 1e-9)
		assert.Equal(t, "2023-11-14T22:13:20Z", msg.Timestamp)
		assert.Equal(t, "dumpvdl2", msg.Source)
	})

	for _, payload := range []string{
		"EGLL 151850Z 24010KT 9999 FEW030 15/09 Q1019",
		`{"foo":"bar"}`,
		`[1,2,3]`,
	} {
		msg, format := Decode([]byte(payload))
		assert.Nil(t, msg, payload)
		assert.Empty(t, format, payload)
	}
}
