// Package acars holds the ACARS message envelope that carries weather
// reports over the air-ground link, and the JSON shapes it arrives in.
package acars

import (
	"encoding/json"
	"strconv"
)

// FlexInt64 accepts a JSON number or a numeric string. Anything else
// decodes to zero.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*f = FlexInt64(i)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt64(i)
		return nil
	}

	*f = 0
	return nil
}

// Message is a single ACARS message. Weather uplinks (D-ATIS, VOLMET,
// requested METARs) arrive as free text in Text.
type Message struct {
	ID        FlexInt64 `json:"id"`
	Source    string    `json:"source,omitempty"`
	Timestamp string    `json:"timestamp"`
	Tail      string    `json:"tail,omitempty"`
	Flight    string    `json:"flight,omitempty"`
	Label     string    `json:"label"`
	Text      string    `json:"text"`
	Frequency float64   `json:"frequency,omitempty"`
	Station   *Station  `json:"station,omitempty"`
}

// Station is the ground station that relayed the message.
type Station struct {
	Ident              string  `json:"ident,omitempty"`
	NearestAirportIcao string  `json:"nearest_airport_icao,omitempty"`
	Latitude           float64 `json:"latitude,omitempty"`
	Longitude          float64 `json:"longitude,omitempty"`
}

// NATSWrapper is the feed format published on NATS: the ACARS fields sit
// under "message" with relay metadata alongside.
type NATSWrapper struct {
	Source   *NATSSource `json:"source,omitempty"`
	Station  *Station    `json:"station,omitempty"`
	Airframe *struct {
		Tail string `json:"tail"`
	} `json:"airframe,omitempty"`
	Message *NATSInner `json:"message,omitempty"`
}

// NATSSource names the feeder that produced a wrapped message.
type NATSSource struct {
	Name        string `json:"name,omitempty"`
	Application string `json:"application,omitempty"`
}

// NATSInner is the "message" object of a NATSWrapper.
type NATSInner struct {
	ID        FlexInt64 `json:"id"`
	Timestamp string    `json:"timestamp"`
	Label     string    `json:"label"`
	Text      string    `json:"text"`
	Tail      string    `json:"tail"`
	Flight    string    `json:"flight"`
	Frequency float64   `json:"frequency"`
}

// ToMessage flattens the wrapper. It returns nil when there is no inner
// message.
func (w *NATSWrapper) ToMessage() *Message {
	if w.Message == nil {
		return nil
	}

	msg := &Message{
		ID:        w.Message.ID,
		Timestamp: w.Message.Timestamp,
		Label:     w.Message.Label,
		Text:      w.Message.Text,
		Tail:      w.Message.Tail,
		Flight:    w.Message.Flight,
		Frequency: w.Message.Frequency,
		Station:   w.Station,
	}
	if msg.Tail == "" && w.Airframe != nil {
		msg.Tail = w.Airframe.Tail
	}
	if w.Source != nil {
		msg.Source = w.Source.Name
	}
	return msg
}
