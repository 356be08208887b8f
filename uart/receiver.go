package uart

import "github.com/procon-bridge/firmware/pkg"

// SyncState is the UART frame receiver's synchronization state.
type SyncState uint8

// Synchronization states.
const (
	OutOfSync SyncState = iota
	SyncStart
	Sync1
	Synced
)

// String returns a human-readable name for the sync state.
func (s SyncState) String() string {
	switch s {
	case OutOfSync:
		return "out-of-sync"
	case SyncStart:
		return "sync-start"
	case Sync1:
		return "sync-1"
	case Synced:
		return "synced"
	default:
		return "unknown"
	}
}

// Handshake and framing wire bytes (§6).
const (
	syncStartByte = 0xFF
	sync1Byte     = 0x33
	sync2Byte     = 0xCC

	respSyncStart = 0xFF
	respSync1     = 0xCC
	respSyncOK    = 0x33

	respAck    = 0x91
	respNack   = 0x92
	respResync = 0xFF

	payloadSize = 8
)

// Receiver implements the 4-state UART sync/framing state machine (§4.1). It
// is driven one byte at a time from the RX interrupt context; FeedByte
// returns the byte (if any) that must be sent back to the host and reports
// whether a full, CRC-valid 8-byte payload was just assembled.
type Receiver struct {
	state SyncState

	buf      [payloadSize]byte
	received int
	crc      byte
}

// NewReceiver returns a Receiver starting in the OutOfSync state.
func NewReceiver() *Receiver {
	return &Receiver{state: OutOfSync}
}

// State returns the current sync state.
func (r *Receiver) State() SyncState {
	return r.state
}

// reset clears the assembly buffer and rolling CRC, leaving state untouched.
func (r *Receiver) reset() {
	r.received = 0
	r.crc = 0
}

// FeedByte processes one byte received over UART. It returns the response
// byte to transmit back to the host (if any) and whether payload now holds
// a freshly-decoded, CRC-valid 8-byte frame.
func (r *Receiver) FeedByte(b byte) (resp byte, hasResp bool, payload [payloadSize]byte, frameValid bool) {
	switch r.state {
	case OutOfSync:
		if b == syncStartByte {
			r.state = SyncStart
			return respSyncStart, true, payload, false
		}
		return 0, false, payload, false

	case SyncStart:
		if b == sync1Byte {
			r.state = Sync1
			return respSync1, true, payload, false
		}
		r.state = OutOfSync
		return 0, false, payload, false

	case Sync1:
		if b == sync2Byte {
			r.state = Synced
			r.reset()
			return respSyncOK, true, payload, false
		}
		r.state = OutOfSync
		return 0, false, payload, false

	case Synced:
		return r.feedSynced(b)

	default:
		r.state = OutOfSync
		return 0, false, payload, false
	}
}

// feedSynced handles one byte while in the Synced state: accumulating
// payload bytes, then validating the ninth (CRC) byte.
func (r *Receiver) feedSynced(b byte) (resp byte, hasResp bool, payload [payloadSize]byte, frameValid bool) {
	if r.received < payloadSize {
		r.buf[r.received] = b
		r.crc ^= b
		for i := 0; i < 8; i++ {
			if r.crc&0x80 != 0 {
				r.crc = (r.crc << 1) ^ 0x07
			} else {
				r.crc <<= 1
			}
		}
		r.received++
		return 0, false, payload, false
	}

	payload = r.buf

	if b == r.crc {
		r.reset()
		pkg.LogDebug(pkg.ComponentUART, "frame accepted")
		return respAck, true, payload, true
	}

	r.reset()
	if b == 0xFF {
		r.state = SyncStart
		pkg.LogWarn(pkg.ComponentUART, "frame crc mismatch, resync requested", "error", pkg.ErrSyncLost)
		return respResync, true, payload, false
	}

	pkg.LogWarn(pkg.ComponentUART, "frame crc mismatch", "error", pkg.ErrFrameCRC)
	return respNack, true, payload, false
}
