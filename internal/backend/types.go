package backend

import (
	"encoding/json"
	"time"
)

// Device is one entry from the ingest API's device list
type Device struct {
	Name string `json:"name"`
}

// Payload holds one reading's payload. When the upstream payload is valid
// JSON it is kept in parsed form; otherwise the raw string is kept as-is.
type Payload struct {
	Parsed any    `json:"parsed,omitempty"`
	Raw    string `json:"raw"`
}

// IsJSON reports whether the payload was successfully parsed as JSON
func (p Payload) IsJSON() bool {
	return p.Parsed != nil
}

// Display returns the payload formatted for rendering: the compact JSON form
// when parsed, the raw string otherwise
func (p Payload) Display() string {
	if p.Parsed != nil {
		if b, err := json.Marshal(p.Parsed); err == nil {
			return string(b)
		}
	}
	return p.Raw
}

// Reading is one row of sensor data for a device
type Reading struct {
	Topic   string    `json:"topic"`
	Payload Payload   `json:"payload"`
	Time    time.Time `json:"time"`
	RawTime string    `json:"raw_time,omitempty"`
}

// LocalTime renders the reading's timestamp in local time. Timestamps the
// normalizer could not parse are shown verbatim.
func (r Reading) LocalTime() string {
	if r.Time.IsZero() {
		return r.RawTime
	}
	return r.Time.Local().Format("2006-01-02 15:04:05")
}
