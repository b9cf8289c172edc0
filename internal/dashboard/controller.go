package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sensordash/sensordash/internal/backend"
)

const statusSelectDevice = "Select a device to load data"

// Fetcher is the slice of the ingest API client the controller needs
type Fetcher interface {
	ListDevices(ctx context.Context) ([]backend.Device, error)
	FetchReadings(ctx context.Context, device string, limit int) ([]backend.Reading, error)
}

// Controller owns the dashboard session state and is the only writer to it.
// All mutations go through the named operations; the rendering layer reads
// copies via Snapshot.
type Controller struct {
	fetcher  Fetcher
	logger   zerolog.Logger
	interval time.Duration

	mu    sync.RWMutex
	state State

	rearm     chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a controller and starts its background refresh loop
func New(fetcher Fetcher, interval time.Duration, defaultLimit int, logger zerolog.Logger) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		logger:   logger,
		interval: interval,
		rearm:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	c.state.Limit = ClampLimit(defaultLimit)
	c.state.Status = statusSelectDevice

	go c.run()
	return c
}

// Interval returns the background refresh interval
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Snapshot returns a read-only copy of the current session state
func (c *Controller) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.state
	snap.Devices = append([]string(nil), c.state.Devices...)
	snap.Readings = append([]backend.Reading(nil), c.state.Readings...)
	return snap
}

// LoadDevices fetches the device list. A non-empty list auto-selects the
// first device and loads its data with the loading indicator shown. Failures
// empty the device list, the selection, and the readings; the list is never
// retried automatically.
func (c *Controller) LoadDevices(ctx context.Context) {
	c.mu.Lock()
	c.state.Status = "Loading devices"
	c.mu.Unlock()

	devices, err := c.fetcher.ListDevices(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load device list")
		c.mu.Lock()
		c.state.Devices = nil
		c.state.Selected = ""
		c.state.Readings = nil
		c.state.Error = "Could not load the device list"
		c.state.Status = "Failed to load devices"
		c.mu.Unlock()
		c.signalRearm()
		return
	}

	names := make([]string, 0, len(devices))
	for _, d := range devices {
		names = append(names, d.Name)
	}

	c.mu.Lock()
	c.state.Devices = names
	c.state.Error = ""
	if len(names) == 0 {
		c.state.Selected = ""
		c.state.Readings = nil
		c.state.Status = "No devices found"
		c.mu.Unlock()
		c.signalRearm()
		return
	}
	c.state.Selected = names[0]
	limit := c.state.Limit
	c.mu.Unlock()
	c.signalRearm()

	c.logger.Info().
		Int("device_count", len(names)).
		Str("selected", names[0]).
		Msg("Device list loaded")

	c.fetch(ctx, names[0], limit, true)
}

// SelectDevice changes the selected device. A non-empty selection loads its
// data with the loading indicator shown; an empty one clears the readings.
// Names not in the current device list are ignored.
func (c *Controller) SelectDevice(ctx context.Context, name string) {
	c.mu.Lock()
	if name != "" && !member(c.state.Devices, name) {
		c.mu.Unlock()
		c.logger.Warn().Str("device", name).Msg("Ignoring selection of unknown device")
		return
	}
	c.state.Selected = name
	if name == "" {
		c.state.Readings = nil
		c.state.Status = statusSelectDevice
		c.mu.Unlock()
		c.signalRearm()
		return
	}
	limit := c.state.Limit
	c.mu.Unlock()
	c.signalRearm()

	c.fetch(ctx, name, limit, true)
}

// SetLimit clamps and stores the row limit. The next fetch, manual or timed,
// picks it up; changing the limit does not itself trigger a fetch.
func (c *Controller) SetLimit(n int) {
	n = ClampLimit(n)
	c.mu.Lock()
	changed := c.state.Limit != n
	c.state.Limit = n
	c.mu.Unlock()
	if changed {
		c.signalRearm()
	}
}

// Refresh re-fetches data for the selected device with the loading indicator
// shown. No-op apart from a status hint when nothing is selected.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.RLock()
	device := c.state.Selected
	limit := c.state.Limit
	c.mu.RUnlock()

	c.fetch(ctx, device, limit, true)
}

// fetch replaces the reading list from the data endpoint. A failed fetch
// keeps the previous readings. The loading flag is touched only when
// showLoading is set, so background refreshes never flap the indicator.
func (c *Controller) fetch(ctx context.Context, device string, limit int, showLoading bool) {
	if device == "" {
		c.mu.Lock()
		c.state.Status = statusSelectDevice
		c.mu.Unlock()
		return
	}

	c.mu.Lock()
	c.state.Status = fmt.Sprintf("Loading data for %s", device)
	if showLoading {
		c.state.Loading = true
	}
	c.mu.Unlock()
	if showLoading {
		c.signalRearm()
	}

	readings, err := c.fetcher.FetchReadings(ctx, device, limit)

	c.mu.Lock()
	if err != nil {
		c.state.Error = fmt.Sprintf("Could not load data for %s", device)
		c.state.Status = "Failed to load device data"
	} else {
		c.state.Readings = readings
		c.state.Error = ""
		c.state.Status = fmt.Sprintf("Loaded %d readings for %s", len(readings), device)
		c.state.LastFetch = time.Now()
	}
	if showLoading {
		c.state.Loading = false
	}
	c.mu.Unlock()
	if showLoading {
		c.signalRearm()
	}

	if err != nil {
		c.logger.Error().
			Err(err).
			Str("device", device).
			Int("limit", limit).
			Msg("Data fetch failed")
		return
	}
	c.logger.Debug().
		Str("device", device).
		Int("count", len(readings)).
		Bool("background", !showLoading).
		Msg("Data fetch complete")
}

// Close stops the background refresh loop. Safe to call more than once.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// run is the background refresh loop. The timer is re-armed whenever the
// selection, limit, or loading flag changes, so a tick never fires against
// parameters captured before the change.
func (c *Controller) run() {
	timer := time.NewTimer(c.interval)
	defer timer.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-c.rearm:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(c.interval)
		case <-timer.C:
			c.tick()
			timer.Reset(c.interval)
		}
	}
}

// tick performs one silent background refresh. Skipped when nothing is
// selected or a user-triggered fetch is in flight; the loading guard is
// best-effort, not mutual exclusion.
func (c *Controller) tick() {
	c.mu.RLock()
	device := c.state.Selected
	limit := c.state.Limit
	loading := c.state.Loading
	c.mu.RUnlock()

	if device == "" || loading {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.interval)
	defer cancel()
	c.fetch(ctx, device, limit, false)
}

// signalRearm nudges the refresh loop without blocking; a pending nudge is
// enough
func (c *Controller) signalRearm() {
	select {
	case c.rearm <- struct{}{}:
	default:
	}
}

func member(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
