package dashboard

import (
	"time"

	"github.com/sensordash/sensordash/internal/backend"
	"github.com/sensordash/sensordash/internal/config"
)

// State is a point-in-time snapshot of the dashboard session. Snapshots are
// copies: the rendering layer never shares mutable state with the controller.
type State struct {
	Devices   []string          `json:"devices"`
	Selected  string            `json:"selected"`
	Limit     int               `json:"limit"`
	Readings  []backend.Reading `json:"readings"`
	Status    string            `json:"status"`
	Error     string            `json:"error"`
	Loading   bool              `json:"loading"`
	LastFetch time.Time         `json:"last_fetch"`
}

// ClampLimit forces n into the allowed row-limit range
func ClampLimit(n int) int {
	if n < config.MinLimit {
		return config.MinLimit
	}
	if n > config.MaxLimit {
		return config.MaxLimit
	}
	return n
}
