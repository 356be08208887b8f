package procon

import "github.com/procon-bridge/firmware/pkg"

// ReplyBufferSize is the size of a queued subcommand reply packet.
const ReplyBufferSize = 64

// MAC is the controller's emulated Bluetooth MAC address, drawn from the
// IANA documentation-reserved 00-00-5E-00-53-xx block rather than a real
// assigned address.
var MAC = [6]byte{0x00, 0x00, 0x5E, 0x00, 0x53, 0x5E}

// ReplyBuffer holds the next queued IN packet composed in response to a
// subcommand, together with the ready flag the scheduler checks each poll.
type ReplyBuffer struct {
	Data  [ReplyBufferSize]byte
	Ready bool
}

// Switch subcommand IDs carried in byte 10 of a length>16 "0x01" OUT packet.
const (
	subcmdPair            = 0x01
	subcmdDeviceInfo       = 0x02
	subcmdSetReportMode    = 0x03
	subcmdTriggerElapsed   = 0x04
	subcmdSetLowPower      = 0x08
	subcmdSPIRead          = 0x10
	subcmdSetPlayerLEDs    = 0x30
	subcmdSetHomeLEDs      = 0x38
	subcmdEnableIMU        = 0x40
	subcmdEnableVibration  = 0x48
	subcmdSetNFCIRMCUConfg = 0x21
)

// HandleOutputReport dispatches a HID OUT packet per the enumeration
// subcommand set, composing a queued reply into reply. enableStandardReports
// is true when the host has asked the controller to begin emitting 0x30
// reports on every poll; the scheduler already does this whenever no reply
// is pending, so the flag exists only for logging.
func HandleOutputReport(data []byte, counter byte, snapshot StandardReport, reply *ReplyBuffer) (enableStandardReports bool) {
	if len(data) == 0 {
		return false
	}

	switch data[0] {
	case 0x80:
		if len(data) < 2 {
			return false
		}
		return handleUSBRequest(data, reply)

	case 0x01:
		if len(data) <= 16 {
			pkg.LogWarn(pkg.ComponentProCon, "uart command too short", "len", len(data), "error", pkg.ErrFrameTooShort)
			return false
		}
		handleSwitchSubcommand(data, counter, snapshot, reply)
		return false

	default:
		pkg.LogWarn(pkg.ComponentProCon, "unrecognized OUT report", "byte0", data[0])
		return false
	}
}

// handleUSBRequest answers the "0x80"-prefixed USB-level requests with
// short framing: byte0=code, byte1=subcommand, bytes2..=body.
func handleUSBRequest(data []byte, reply *ReplyBuffer) (enableStandardReports bool) {
	subtype := data[1]

	switch subtype {
	case 0x01:
		body := make([]byte, 0, 8)
		body = append(body, 0x00, 0x03)
		body = append(body, MAC[:]...)
		assembleShortReply(reply, 0x81, subtype, body)

	case 0x02, 0x03:
		assembleShortReply(reply, 0x81, subtype, nil)

	case 0x04:
		pkg.LogDebug(pkg.ComponentProCon, "standard reports enabled")
		return true

	default:
		assembleShortReply(reply, 0x81, subtype, nil)
	}
	return false
}

// handleSwitchSubcommand answers a Switch subcommand (byte 10 of a length>16
// "0x01" OUT packet) with UART-reply framing.
func handleSwitchSubcommand(data []byte, counter byte, snapshot StandardReport, reply *ReplyBuffer) {
	subcmd := data[10]

	switch subcmd {
	case subcmdPair:
		assembleUARTReply(reply, counter, snapshot, 0x81, subcmd, []byte{0x03})

	case subcmdDeviceInfo:
		body := []byte{
			0x03, 0x48, 0x03, 0x02,
			MAC[5], MAC[4], MAC[3], MAC[2], MAC[1], MAC[0],
			0x03, 0x02,
		}
		assembleUARTReply(reply, counter, snapshot, 0x82, subcmd, body)

	case subcmdSetReportMode, subcmdSetLowPower, subcmdSetPlayerLEDs,
		subcmdSetHomeLEDs, subcmdEnableIMU, subcmdEnableVibration:
		assembleUARTReply(reply, counter, snapshot, 0x80, subcmd, nil)

	case subcmdTriggerElapsed:
		assembleUARTReply(reply, counter, snapshot, 0x83, subcmd, nil)

	case subcmdSetNFCIRMCUConfg:
		body := []byte{0x01, 0x00, 0xFF, 0x00, 0x03, 0x00, 0x05, 0x01}
		assembleUARTReply(reply, counter, snapshot, 0xA0, subcmd, body)

	case subcmdSPIRead:
		if len(data) < 16 {
			assembleUARTReply(reply, counter, snapshot, 0x80, subcmd, nil)
			return
		}
		addrLo, addrHi, size := data[11], data[12], data[15]
		address := uint16(addrHi)<<8 | uint16(addrLo)
		spiData := ReadSPI(address, size)
		body := append([]byte{addrLo, addrHi, 0x00, 0x00, size}, spiData...)
		assembleUARTReply(reply, counter, snapshot, 0x90, subcmd, body)

	default:
		pkg.LogWarn(pkg.ComponentProCon, "unknown subcommand", "subcmd", subcmd, "error", pkg.ErrUnknownSubcommand)
		assembleUARTReply(reply, counter, snapshot, 0x80, subcmd, nil)
	}
}

// assembleShortReply writes a short-framed reply: byte0=code, byte1=subcmd,
// bytes2..=body, remainder zero.
func assembleShortReply(reply *ReplyBuffer, code, subcmd byte, body []byte) {
	for i := range reply.Data {
		reply.Data[i] = 0
	}
	reply.Data[0] = code
	reply.Data[1] = subcmd
	copy(reply.Data[2:], body)
	reply.Ready = true
}

// assembleUARTReply writes a UART-reply-framed reply: byte0=0x21,
// byte1=counter, bytes2..50=StandardReport snapshot, byte51=code,
// byte52=subcmd, bytes53..63=body (truncated if longer).
func assembleUARTReply(reply *ReplyBuffer, counter byte, snapshot StandardReport, code, subcmd byte, body []byte) {
	for i := range reply.Data {
		reply.Data[i] = 0
	}
	reply.Data[0] = 0x21
	reply.Data[1] = counter
	snapshot.MarshalTo(reply.Data[2:51])
	reply.Data[51] = code
	reply.Data[52] = subcmd
	copy(reply.Data[53:], body)
	reply.Ready = true
}
