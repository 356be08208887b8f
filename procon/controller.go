package procon

import (
	"context"
	"sync"
	"time"

	"github.com/procon-bridge/firmware/device/class/hid"
	"github.com/procon-bridge/firmware/pkg"
	"github.com/procon-bridge/firmware/uart"
)

// pollInterval is the USB IN-endpoint polling period (§4.7: 8 ms).
const pollInterval = pollIntervalMillis * time.Millisecond

// Controller composes the UART frame receiver, subcommand responder, and
// heartbeat/watchdog policy into the running Pro Controller emulation.
//
// The reference firmware shares all of this state between a UART RX
// interrupt handler and a cooperative main loop, guarded by disabling the RX
// interrupt around each critical section (§5). A single goroutine cannot be
// preempted by another mid-statement the way an ISR preempts a main loop, so
// that discipline is modeled here with one sync.Mutex standing in for
// mask_rx/unmask_rx: every access to the fields below takes mutex, and the
// blocking HID transmit in inLoop happens only after it is released.
type Controller struct {
	port      uart.Port
	hidDriver *hid.HID
	led       LEDDriver

	mutex    sync.Mutex
	receiver *Receiver
	watchdog Watchdog
	reply    ReplyBuffer
	live     StandardReport
	idle     StandardReport
	selected ReportSelection
	counter  byte
}

// NewController wires a Controller to its UART transport, HID class driver,
// and LED indicator.
func NewController(port uart.Port, hidDriver *hid.HID, led LEDDriver) *Controller {
	c := &Controller{
		port:      port,
		hidDriver: hidDriver,
		led:       led,
		receiver:  NewReceiver(),
		idle:      IdleReport(),
		selected:  SelectIdle,
	}
	hidDriver.SetOnOutputReport(c.handleOutputReport)
	return c
}

// Run starts the UART receive loop and the IN-endpoint scheduler, blocking
// until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- c.uartLoop(ctx)
	}()

	inErr := c.inLoop(ctx)
	if inErr != nil && inErr != context.Canceled {
		return inErr
	}
	select {
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			return err
		}
	case <-ctx.Done():
	}
	return nil
}

// uartLoop feeds bytes from the UART port into the frame receiver one at a
// time, writing back handshake/ACK/NACK responses and updating the live
// report whenever a frame validates.
func (c *Controller) uartLoop(ctx context.Context) error {
	for {
		b, err := c.port.ReadByte(ctx)
		if err != nil {
			return err
		}

		c.mutex.Lock()
		resp, hasResp, payload, valid := c.receiver.FeedByte(b)
		if valid {
			c.live = DecodeReport(payload)
			c.selected = SelectLive
			c.watchdog.Reset()
		}
		c.mutex.Unlock()

		if hasResp {
			if err := c.port.WriteByte(ctx, resp); err != nil {
				return err
			}
		}
	}
}

// inLoop runs the heartbeat policy and composes exactly one 64-byte report
// each poll interval, per §4.6.
func (c *Controller) inLoop(ctx context.Context) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			var report [ReplyBufferSize]byte
			c.composeReport(&report)
			if err := c.hidDriver.SendReport(ctx, report[:]); err != nil {
				pkg.LogWarn(pkg.ComponentProCon, "send report failed", "error", err)
			}
		}
	}
}

// composeReport runs the watchdog policy and fills report with either the
// pending subcommand reply or a freshly composed 0x30 standard report.
func (c *Controller) composeReport(report *[ReplyBufferSize]byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	selection, homeSet, leds := c.watchdog.Evaluate(c.receiver.State())
	c.selected = selection
	c.idle.Home = homeSet
	applyPattern(c.led, leds)

	if c.reply.Ready {
		*report = c.reply.Data
		c.reply.Ready = false
		return
	}

	snapshot := c.live
	if c.selected == SelectIdle {
		snapshot = c.idle
	}

	c.counter += 3
	report[0] = 0x30
	report[1] = c.counter
	snapshot.MarshalTo(report[2:51])
}

// handleOutputReport is the HID class driver's onOutputReport callback: it
// dispatches the OUT packet to the subcommand responder and queues any
// reply.
func (c *Controller) handleOutputReport(data []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// OUT reports are dropped while a reply is still waiting to be sent.
	if c.reply.Ready {
		return
	}

	if len(data) > ReplyBufferSize {
		data = data[:ReplyBufferSize]
	}

	snapshot := c.live
	if c.selected == SelectIdle {
		snapshot = c.idle
	}

	if data[0] == 0x01 {
		c.counter += 3
	}

	HandleOutputReport(data, c.counter, snapshot, &c.reply)
}
