package acars

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Format names the JSON shape a payload was recognised as.
type Format string

const (
	FormatNATS   Format = "nats"
	FormatFlat   Format = "flat"
	FormatNested Format = "nested"
)

// Decode recognises a JSON payload as one of the supported message shapes:
// the NATS wrapper, a flat message, or a dumpvdl2/dumphfdl log line with
// the ACARS fields nested deeper. It returns nil when the payload is not
// JSON or carries neither a label nor text.
func Decode(b []byte) (*Message, Format) {
	var w NATSWrapper
	if err := json.Unmarshal(b, &w); err == nil && w.Message != nil {
		if msg := w.ToMessage(); msg.Label != "" || msg.Text != "" {
			return msg, FormatNATS
		}
	}

	var m Message
	if err := json.Unmarshal(b, &m); err == nil {
		if strings.TrimSpace(m.Label) != "" || strings.TrimSpace(m.Text) != "" {
			return &m, FormatFlat
		}
	}

	var root map[string]any
	if err := json.Unmarshal(b, &root); err != nil {
		return nil, ""
	}
	if msg := fromNested(root); msg != nil {
		return msg, FormatNested
	}
	return nil, ""
}

func fromNested(root map[string]any) *Message {
	msg := &Message{
		Label: firstString(root,
			"vdl2.avlc.acars.label",
			"hfdl.lpdu.hfnpdu.acars.label",
			"acars.label",
		),
		Text: firstString(root,
			"vdl2.avlc.acars.msg_text",
			"hfdl.lpdu.hfnpdu.acars.msg_text",
			"acars.text",
		),
	}
	if strings.TrimSpace(msg.Label) == "" && strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	msg.Tail = firstString(root,
		"vdl2.avlc.acars.reg",
		"hfdl.lpdu.hfnpdu.acars.reg",
		"acars.tail",
	)
	msg.Flight = firstString(root,
		"vdl2.avlc.acars.flight",
		"hfdl.lpdu.hfnpdu.acars.flight",
	)
	msg.Source = firstString(root, "vdl2.app.name", "hfdl.app.name", "app.name")

	if sec := firstInt64(root, "vdl2.t.sec", "hfdl.t.sec", "t.sec"); sec > 0 {
		usec := firstInt64(root, "vdl2.t.usec", "hfdl.t.usec", "t.usec")
		msg.Timestamp = time.Unix(sec, usec*1000).UTC().Format(time.RFC3339Nano)
	}

	// Decoder logs carry Hz.
	if freq := firstFloat64(root, "vdl2.freq", "hfdl.freq"); freq > 1_000_000 {
		msg.Frequency = freq / 1_000_000
	} else {
		msg.Frequency = freq
	}
	return msg
}

func firstString(root map[string]any, paths ...string) string {
	for _, p := range paths {
		v, ok := deepGet(root, p)
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if strings.TrimSpace(t) != "" {
				return t
			}
		case float64:
			// Numeric labels such as 21 or 80.
			return strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return ""
}

func firstInt64(root map[string]any, paths ...string) int64 {
	for _, p := range paths {
		if v, ok := deepGet(root, p); ok {
			if f, ok := v.(float64); ok {
				return int64(f)
			}
		}
	}
	return 0
}

func firstFloat64(root map[string]any, paths ...string) float64 {
	for _, p := range paths {
		if v, ok := deepGet(root, p); ok {
			if f, ok := v.(float64); ok {
				return f
			}
		}
	}
	return 0
}

// deepGet walks root along a dotted path such as "a.b.c".
func deepGet(root map[string]any, dotted string) (any, bool) {
	var cur any = root
	for _, part := range strings.Split(dotted, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = node[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
