package backend

import (
	"encoding/json"
	"time"
)

// deviceNameKeys is the ordered list of field names a device record may carry
// its name under. First present wins.
var deviceNameKeys = []string{"device_name", "device", "deviceName"}

// timestampLayouts are the accepted wire formats for reading timestamps,
// tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// resolveDeviceName extracts a device name from one element of the device
// list. The element is either an object carrying the name under one of
// several keys, or a bare string used verbatim.
func resolveDeviceName(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	for _, key := range deviceNameKeys {
		field, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(field, &s); err == nil && s != "" {
			return s, true
		}
	}
	return "", false
}

// rawReading mirrors one element of the data endpoint's response
type rawReading struct {
	Topic       string          `json:"topic"`
	PayloadJSON json.RawMessage `json:"payload_json"`
	PayloadRaw  string          `json:"payload_raw"`
	Timestamp   string          `json:"timestamp"`
	CreatedAt   string          `json:"created_at"`
	CreatedAt2  string          `json:"createdAt"`
}

// normalize converts a wire reading into the canonical Reading form
func (rr rawReading) normalize() Reading {
	r := Reading{
		Topic:   rr.Topic,
		Payload: normalizePayload(rr.PayloadJSON, rr.PayloadRaw),
	}

	raw := rr.Timestamp
	if raw == "" {
		raw = rr.CreatedAt
	}
	if raw == "" {
		raw = rr.CreatedAt2
	}
	r.RawTime = raw
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			r.Time = t
			break
		}
	}
	return r
}

// normalizePayload builds a Payload from the wire fields. payload_json is
// either a JSON value directly, or a string containing JSON text; a string
// that fails to parse is kept raw (degraded display beats a dropped row).
func normalizePayload(payloadJSON json.RawMessage, payloadRaw string) Payload {
	if len(payloadJSON) == 0 || string(payloadJSON) == "null" {
		return Payload{Raw: payloadRaw}
	}

	// String form: the payload is JSON text inside a JSON string
	var inner string
	if err := json.Unmarshal(payloadJSON, &inner); err == nil {
		p := Payload{Raw: inner}
		var parsed any
		if err := json.Unmarshal([]byte(inner), &parsed); err == nil {
			p.Parsed = parsed
		}
		return p
	}

	// Object/array/number form: already a JSON value
	var parsed any
	if err := json.Unmarshal(payloadJSON, &parsed); err == nil {
		return Payload{Parsed: parsed, Raw: string(payloadJSON)}
	}
	return Payload{Raw: payloadRaw}
}
