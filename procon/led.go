package procon

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3"

	"github.com/procon-bridge/firmware/pkg"
)

// LEDDriver controls the controller's player-indicator LEDs.
type LEDDriver interface {
	SetAll(bool) error
	SetLED1(bool) error
	SetLED2(bool) error
	Off() error
}

// GPIOLEDDriver drives two player LEDs through periph.io GPIO output pins.
type GPIOLEDDriver struct {
	led1 gpio.PinOut
	led2 gpio.PinOut
}

// NewGPIOLEDDriver initializes the periph.io host drivers and wraps the two
// given output pins as player LEDs.
func NewGPIOLEDDriver(led1, led2 gpio.PinOut) (*GPIOLEDDriver, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	return &GPIOLEDDriver{led1: led1, led2: led2}, nil
}

func level(on bool) gpio.Level {
	if on {
		return gpio.High
	}
	return gpio.Low
}

// SetAll lights (or clears) both LEDs.
func (d *GPIOLEDDriver) SetAll(on bool) error {
	if err := d.led1.Out(level(on)); err != nil {
		return err
	}
	return d.led2.Out(level(on))
}

// SetLED1 sets the first player LED only.
func (d *GPIOLEDDriver) SetLED1(on bool) error {
	return d.led1.Out(level(on))
}

// SetLED2 sets the second player LED only.
func (d *GPIOLEDDriver) SetLED2(on bool) error {
	return d.led2.Out(level(on))
}

// Off clears both LEDs.
func (d *GPIOLEDDriver) Off() error {
	return d.SetAll(false)
}

// NullLEDDriver discards all LED commands, used under the FIFO/loopback HAL
// where no physical LEDs exist.
type NullLEDDriver struct{}

func (NullLEDDriver) SetAll(bool) error {
	return nil
}

func (NullLEDDriver) SetLED1(bool) error {
	return nil
}

func (NullLEDDriver) SetLED2(bool) error {
	return nil
}

func (NullLEDDriver) Off() error {
	return nil
}

// applyPattern drives an LEDDriver according to a watchdog LEDPattern.
func applyPattern(d LEDDriver, pattern LEDPattern) {
	var err error
	switch pattern {
	case LEDsOff:
		err = d.Off()
	case LEDsOne:
		err = d.SetLED1(true)
	case LEDsTwo:
		err = d.SetLED2(true)
	case LEDsAll:
		err = d.SetAll(true)
	}
	if err != nil {
		pkg.LogWarn(pkg.ComponentLED, "led update failed", "error", err)
	}
}
