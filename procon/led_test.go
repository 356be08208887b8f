package procon

import "testing"

type recordingLEDDriver struct {
	allCalls, led1Calls, led2Calls, offCalls int
	lastAll, lastLED1, lastLED2              bool
}

func (r *recordingLEDDriver) SetAll(on bool) error {
	r.allCalls++
	r.lastAll = on
	return nil
}

func (r *recordingLEDDriver) SetLED1(on bool) error {
	r.led1Calls++
	r.lastLED1 = on
	return nil
}

func (r *recordingLEDDriver) SetLED2(on bool) error {
	r.led2Calls++
	r.lastLED2 = on
	return nil
}

func (r *recordingLEDDriver) Off() error {
	r.offCalls++
	return nil
}

func TestApplyPattern_DispatchesToCorrectMethod(t *testing.T) {
	tests := []struct {
		name    string
		pattern LEDPattern
		check   func(*testing.T, *recordingLEDDriver)
	}{
		{"off", LEDsOff, func(t *testing.T, r *recordingLEDDriver) {
			if r.offCalls != 1 {
				t.Errorf("Off() called %d times, want 1", r.offCalls)
			}
		}},
		{"one", LEDsOne, func(t *testing.T, r *recordingLEDDriver) {
			if r.led1Calls != 1 || !r.lastLED1 {
				t.Errorf("SetLED1(true) not called as expected")
			}
		}},
		{"two", LEDsTwo, func(t *testing.T, r *recordingLEDDriver) {
			if r.led2Calls != 1 || !r.lastLED2 {
				t.Errorf("SetLED2(true) not called as expected")
			}
		}},
		{"all", LEDsAll, func(t *testing.T, r *recordingLEDDriver) {
			if r.allCalls != 1 || !r.lastAll {
				t.Errorf("SetAll(true) not called as expected")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingLEDDriver{}
			applyPattern(r, tt.pattern)
			tt.check(t, r)
		})
	}
}

func TestNullLEDDriver_NeverErrors(t *testing.T) {
	var d NullLEDDriver
	if err := d.SetAll(true); err != nil {
		t.Errorf("SetAll: %v", err)
	}
	if err := d.SetLED1(true); err != nil {
		t.Errorf("SetLED1: %v", err)
	}
	if err := d.SetLED2(false); err != nil {
		t.Errorf("SetLED2: %v", err)
	}
	if err := d.Off(); err != nil {
		t.Errorf("Off: %v", err)
	}
}
