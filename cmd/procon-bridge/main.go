// Command procon-bridge runs the Pro Controller emulation firmware: it reads
// UART frames from a host PC and presents a USB HID device that looks and
// behaves like a genuine Nintendo Switch Pro Controller.
//
// Usage:
//
//	procon-bridge [options] <bus-dir>
//
// The bus directory is the FIFO HAL's shared directory (see
// device/hal/fifo), used for development and integration testing without
// real USB hardware. A real hardware device-side HAL is out of scope for
// this module.
//
// Options:
//
//	-v                   Enable verbose (debug) logging
//	-json                Use JSON log format
//	-enum-timeout duration  Timeout waiting for host enumeration (default: 10s)
//	-uart string         UART device path (default: loopback)
//	-baud int            UART baud rate (default: 1000000)
//	-cpuprofile string   Write a CPU profile to this path (build with -tags profile)
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/procon-bridge/firmware/device"
	"github.com/procon-bridge/firmware/device/hal/fifo"
	"github.com/procon-bridge/firmware/pkg"
	"github.com/procon-bridge/firmware/pkg/prof"
	"github.com/procon-bridge/firmware/procon"
	"github.com/procon-bridge/firmware/uart"
)

const component = pkg.ComponentProCon

func main() {
	verbose := flag.Bool("v", false, "enable verbose (debug) logging")
	jsonLog := flag.Bool("json", false, "use JSON log format")
	enumTimeout := flag.Duration("enum-timeout", 10*time.Second, "timeout for host enumeration")
	uartDev := flag.String("uart", "", "UART device path (empty uses an in-process loopback)")
	baud := flag.Int("baud", 1000000, "UART baud rate")
	cpuProfile := flag.String("cpuprofile", "", "write a CPU profile to this path (requires building with -tags profile)")
	flag.Parse()

	if flag.NArg() < 1 {
		pkg.LogError(component, "missing bus directory argument",
			"usage", "procon-bridge [options] <bus-dir>")
		os.Exit(1)
	}
	busDir := flag.Arg(0)

	if *verbose {
		pkg.SetLogLevel(slog.LevelDebug)
	}
	if *jsonLog {
		pkg.SetLogFormat(pkg.LogFormatJSON)
	}

	if *cpuProfile != "" {
		if err := prof.StartCPU(*cpuProfile); err != nil {
			pkg.LogError(component, "failed to start CPU profile", "error", err)
			os.Exit(1)
		}
		defer prof.StopCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port, closePort, err := openPort(*uartDev, *baud)
	if err != nil {
		pkg.LogError(component, "failed to open UART", "error", err)
		os.Exit(1)
	}
	defer closePort()

	dev, hidDriver, err := procon.BuildDevice(ctx)
	if err != nil {
		pkg.LogError(component, "failed to build device", "error", err)
		os.Exit(1)
	}

	hal := fifo.New(busDir)
	stack := device.NewStack(dev, hal)
	hidDriver.SetStack(stack)

	led, err := ledDriver()
	if err != nil {
		pkg.LogError(component, "failed to initialize LED driver", "error", err)
		os.Exit(1)
	}

	controller := procon.NewController(port, hidDriver, led)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		pkg.LogInfo(component, "shutting down")
		cancel()
	}()

	pkg.LogInfo(component, "starting pro controller device", "busDir", busDir)
	if err := stack.Start(ctx); err != nil {
		pkg.LogError(component, "failed to start device", "error", err)
		os.Exit(1)
	}
	defer stack.Stop()

	connectCtx, connectCancel := context.WithTimeout(ctx, *enumTimeout)
	if err := stack.WaitConnect(connectCtx); err != nil {
		connectCancel()
		pkg.LogError(component, "host enumeration failed", "error", err)
		os.Exit(1)
	}
	connectCancel()
	pkg.LogInfo(component, "host connected, entering run loop")

	if err := controller.Run(ctx); err != nil && ctx.Err() == nil {
		pkg.LogError(component, "controller run loop exited", "error", err)
		os.Exit(1)
	}
}

// openPort returns the UART transport to drive the controller from: a real
// serial port when -uart names one, otherwise an in-process loopback whose
// host side is left for a test harness or companion process to drive.
func openPort(devPath string, baud int) (uart.Port, func(), error) {
	if devPath == "" {
		devicePort, _ := uart.NewLoopbackPair()
		pkg.LogInfo(component, "no -uart given, using in-process loopback")
		return devicePort, func() { devicePort.Close() }, nil
	}

	sp, err := uart.OpenSerialPort(devPath, baud)
	if err != nil {
		return nil, nil, err
	}
	return sp, func() { sp.Close() }, nil
}

// ledDriver returns a no-op LED driver; a GPIO-backed driver requires
// board-specific pin assignments this module does not hardcode.
func ledDriver() (procon.LEDDriver, error) {
	return procon.NullLEDDriver{}, nil
}
