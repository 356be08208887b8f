package uart

import (
	"context"
	"io"
)

// PipePort is an in-memory Port backed by io.Pipe, used for the FIFO/loopback
// development mode and integration tests where a simulated host sender
// drives the controller without real serial hardware.
type PipePort struct {
	r io.Reader
	w io.Writer
	c io.Closer
}

// NewPipePort wraps an existing reader/writer pair (as returned by io.Pipe)
// as a Port. Closer may be nil if the caller manages lifetime elsewhere.
func NewPipePort(r io.Reader, w io.Writer, c io.Closer) *PipePort {
	return &PipePort{r: r, w: w, c: c}
}

// NewLoopbackPair returns two connected PipePorts: writes on one are read on
// the other, in both directions. This is the pairing used by integration
// tests to simulate a host PC talking to the controller over UART.
func NewLoopbackPair() (device *PipePort, host *PipePort) {
	hostToDeviceR, hostToDeviceW := io.Pipe()
	deviceToHostR, deviceToHostW := io.Pipe()

	device = &PipePort{r: hostToDeviceR, w: deviceToHostW}
	host = &PipePort{r: deviceToHostR, w: hostToDeviceW}
	return device, host
}

// ReadByte blocks until one byte is available on the pipe or ctx is
// cancelled. Cancellation is best-effort: an in-flight io.Pipe read cannot be
// interrupted, so ReadByte only checks ctx before issuing the read.
func (p *PipePort) ReadByte(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var buf [1]byte
	if _, err := io.ReadFull(p.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteByte writes one byte to the pipe.
func (p *PipePort) WriteByte(ctx context.Context, b byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.w.Write([]byte{b})
	return err
}

// Close closes the underlying pipe, if one was provided.
func (p *PipePort) Close() error {
	if p.c != nil {
		return p.c.Close()
	}
	return nil
}
