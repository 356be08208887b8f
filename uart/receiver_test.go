package uart

import "testing"

func syncUp(t *testing.T, r *Receiver) {
	t.Helper()
	if resp, has, _, _ := r.FeedByte(syncStartByte); !has || resp != respSyncStart {
		t.Fatalf("sync start: resp=%02X has=%v", resp, has)
	}
	if resp, has, _, _ := r.FeedByte(sync1Byte); !has || resp != respSync1 {
		t.Fatalf("sync1: resp=%02X has=%v", resp, has)
	}
	if resp, has, _, _ := r.FeedByte(sync2Byte); !has || resp != respSyncOK {
		t.Fatalf("sync2: resp=%02X has=%v", resp, has)
	}
	if r.State() != Synced {
		t.Fatalf("state = %v, want Synced", r.State())
	}
}

func TestReceiver_Handshake(t *testing.T) {
	r := NewReceiver()
	if r.State() != OutOfSync {
		t.Fatalf("initial state = %v, want OutOfSync", r.State())
	}
	syncUp(t, r)
}

func TestReceiver_HandshakeRejectsWrongByte(t *testing.T) {
	r := NewReceiver()
	r.FeedByte(syncStartByte)
	if r.State() != SyncStart {
		t.Fatalf("state = %v, want SyncStart", r.State())
	}
	resp, has, _, _ := r.FeedByte(0x00)
	if has {
		t.Errorf("expected no response on bad handshake byte, got 0x%02X", resp)
	}
	if r.State() != OutOfSync {
		t.Errorf("state = %v, want OutOfSync after handshake rejection", r.State())
	}
}

func TestReceiver_ValidFrame(t *testing.T) {
	r := NewReceiver()
	syncUp(t, r)

	payload := [8]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	var crc byte
	for _, b := range payload {
		resp, has, _, valid := r.FeedByte(b)
		if has || valid {
			t.Fatalf("unexpected response while accumulating payload byte 0x%02X", resp)
		}
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}

	resp, has, got, valid := r.FeedByte(crc)
	if !has || resp != respAck {
		t.Fatalf("resp=%02X has=%v, want ACK", resp, has)
	}
	if !valid {
		t.Fatalf("expected frameValid=true")
	}
	if got != payload {
		t.Errorf("decoded payload = %v, want %v", got, payload)
	}
	if r.State() != Synced {
		t.Errorf("state = %v, want still Synced", r.State())
	}
}

func TestReceiver_CRCMismatchNACK(t *testing.T) {
	r := NewReceiver()
	syncUp(t, r)

	payload := [8]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	for _, b := range payload {
		r.FeedByte(b)
	}

	resp, has, _, valid := r.FeedByte(0x00) // deliberately wrong CRC
	if !has || resp != respNack {
		t.Fatalf("resp=%02X has=%v, want NACK", resp, has)
	}
	if valid {
		t.Errorf("expected frameValid=false on CRC mismatch")
	}
	if r.State() != Synced {
		t.Errorf("state = %v, want still Synced after NACK", r.State())
	}
}

func TestReceiver_ResyncRequestOnFFMismatch(t *testing.T) {
	r := NewReceiver()
	syncUp(t, r)

	payload := [8]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	for _, b := range payload {
		r.FeedByte(b)
	}

	resp, has, _, valid := r.FeedByte(0xFF)
	if !has || resp != respResync {
		t.Fatalf("resp=%02X has=%v, want resync byte", resp, has)
	}
	if valid {
		t.Errorf("expected frameValid=false on resync")
	}
	if r.State() != SyncStart {
		t.Errorf("state = %v, want SyncStart after resync request", r.State())
	}
}
