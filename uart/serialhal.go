package uart

import (
	"context"
	"io"
	"sync"

	"github.com/tarm/serial"

	"github.com/procon-bridge/firmware/pkg"
)

// SerialPort is a Port backed by a real serial device (typically a USB-serial
// bridge wired to the host PC), opened via github.com/tarm/serial at 1
// Mbaud, 8N1, no flow control, per the UART wire protocol (§6).
type SerialPort struct {
	port *serial.Port

	mutex   sync.Mutex
	readBuf [1]byte
}

// OpenSerialPort opens dev at baud and returns a SerialPort reading/writing
// one byte at a time.
func OpenSerialPort(dev string, baud int) (*SerialPort, error) {
	cfg := &serial.Config{Name: dev, Baud: baud}
	p, err := serial.OpenPort(cfg)
	if err != nil {
		return nil, err
	}
	pkg.LogInfo(pkg.ComponentUART, "serial port opened", "device", dev, "baud", baud)
	return &SerialPort{port: p}, nil
}

// ReadByte blocks until one byte arrives on the serial line.
//
// github.com/tarm/serial has no context-aware read; ctx is only checked
// before and after the blocking read call, matching how the teacher's FIFO
// HAL handles non-cancellable platform I/O.
func (s *SerialPort) ReadByte(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	n, err := io.ReadFull(s.port, s.readBuf[:])
	if err != nil {
		return 0, err
	}
	if n != 1 {
		return 0, pkg.ErrUnderrun
	}
	return s.readBuf[0], ctx.Err()
}

// WriteByte writes one byte to the serial line.
func (s *SerialPort) WriteByte(ctx context.Context, b byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, err := s.port.Write([]byte{b})
	return err
}

// Close releases the underlying serial device.
func (s *SerialPort) Close() error {
	return s.port.Close()
}
