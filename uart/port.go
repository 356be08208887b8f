package uart

import "context"

// Port is a minimal, platform-agnostic UART transport: context-scoped
// blocking byte I/O, mirroring the shape of device/hal.DeviceHAL's control
// endpoint operations. Implementations need not buffer more than one byte in
// either direction since the frame receiver consumes bytes as they arrive.
type Port interface {
	// ReadByte blocks until one byte has been received or ctx is cancelled.
	ReadByte(ctx context.Context) (byte, error)

	// WriteByte blocks until b has been handed to the transport or ctx is
	// cancelled.
	WriteByte(ctx context.Context, b byte) error

	// Close releases the underlying transport.
	Close() error
}
