package procon

import "github.com/procon-bridge/firmware/uart"

// Staleness thresholds (milliseconds since the last valid UART frame), and
// the per-poll increment reflecting the 8 ms USB polling interval.
const (
	MillisUntilPause = 120
	MillisUntilHome  = 800
	MillisHomePressed = 200
	millisHomeRelease = MillisUntilHome + MillisHomePressed // 1000

	pollIntervalMillis = 8
)

// ReportSelection names which report the scheduler should transmit.
type ReportSelection int

// Report selections.
const (
	SelectLive ReportSelection = iota
	SelectIdle
)

// Watchdog tracks milliseconds elapsed since the last valid UART frame and
// drives the idle/HOME escalation policy (§4.4).
type Watchdog struct {
	staleMillis uint32
}

// Reset clears the staleness timer, called whenever a valid UART frame is
// received.
func (w *Watchdog) Reset() {
	w.staleMillis = 0
}

// Evaluate runs once per IN emission while the RX interrupt is masked. Given
// the current sync state, it returns which report to select, whether the
// idle report's HOME bit should be set, and the LED pattern to display; it
// also advances the staleness timer by one poll interval where applicable.
func (w *Watchdog) Evaluate(state uart.SyncState) (selection ReportSelection, homeSet bool, leds LEDPattern) {
	if state != uart.Synced {
		return SelectIdle, false, LEDsOff
	}

	switch {
	case w.staleMillis < MillisUntilPause:
		w.staleMillis += pollIntervalMillis
		return SelectLive, false, LEDsAll

	case w.staleMillis < MillisUntilHome:
		w.staleMillis += pollIntervalMillis
		return SelectIdle, false, LEDsOne

	case w.staleMillis < millisHomeRelease:
		w.staleMillis += pollIntervalMillis
		return SelectIdle, true, LEDsTwo

	default:
		return SelectIdle, false, LEDsOne
	}
}

// LEDPattern names which player LEDs the watchdog wants lit.
type LEDPattern int

// LED patterns.
const (
	LEDsOff LEDPattern = iota
	LEDsOne
	LEDsTwo
	LEDsAll
)
