// Package procon implements the Nintendo Switch Pro Controller USB personality:
// descriptor tables, report encoding, subcommand responses, and the
// UART-driven scheduler that ties them together.
package procon

import (
	"context"

	"github.com/procon-bridge/firmware/device"
	"github.com/procon-bridge/firmware/device/class/hid"
	"github.com/procon-bridge/firmware/pkg"
)

// USB identity fields reported during enumeration, matching a factory
// Pro Controller byte for byte.
const (
	VendorID      = 0x057E
	ProductID     = 0x2009
	DeviceVersion = 0x0210 // BCD 2.1.0

	ManufacturerString = "Nintendo Co., Ltd."
	ProductString      = "Pro Controller"
	SerialString       = "000000000001"

	configurationValue = 1
	interfaceNumber    = 0

	// InEndpointAddress and OutEndpointAddress are the two interrupt
	// endpoints the controller interface exposes.
	InEndpointAddress  = 0x81
	OutEndpointAddress = 0x01

	endpointMaxPacketSize = 64
	endpointInterval      = 8 // ms
)

// reportDescriptor is the Pro Controller's HID report descriptor, transcribed
// byte-for-byte from the HID_RI_* item sequence of the reference firmware's
// descriptor table. It declares the standard report (ID 48, 10+4 buttons, a
// 4-axis 16-bit stick pair, a HAT nibble, 4 spare buttons, padding) followed
// by the vendor-defined page carrying the subcommand/SPI input reports
// (IDs 33, 0x81) and the rumble/subcommand output reports (IDs 1, 16, 0x80,
// 0x82).
var reportDescriptor = []byte{
	0x05, 0x01, //       Usage Page (Generic Desktop)
	0x15, 0x00, //       Logical Minimum (0)
	0x09, 0x04, //       Usage (Joystick)
	0xA1, 0x01, //       Collection (Application)

	0x85, 0x30, //         Report ID (48)
	0x05, 0x01, //         Usage Page (Generic Desktop)
	0x05, 0x09, //         Usage Page (Button)
	0x19, 0x01, //         Usage Minimum (0x01)
	0x29, 0x0A, //         Usage Maximum (0x0A)
	0x15, 0x00, //         Logical Minimum (0)
	0x25, 0x01, //         Logical Maximum (1)
	0x75, 0x01, //         Report Size (1)
	0x95, 0x0A, //         Report Count (10)
	0x55, 0x00, //         Unit Exponent (0)
	0x65, 0x00, //         Unit (none)
	0x81, 0x02, //         Input (Data,Var,Abs)

	0x05, 0x09, //         Usage Page (Button)
	0x19, 0x0B, //         Usage Minimum (0x0B)
	0x29, 0x0E, //         Usage Maximum (0x0E)
	0x15, 0x00, //         Logical Minimum (0)
	0x25, 0x01, //         Logical Maximum (1)
	0x75, 0x01, //         Report Size (1)
	0x95, 0x04, //         Report Count (4)
	0x81, 0x02, //         Input (Data,Var,Abs)

	0x75, 0x01, //         Report Size (1)
	0x95, 0x02, //         Report Count (2)
	0x81, 0x03, //         Input (Const,Var,Abs) - padding

	0x0B, 0x01, 0x00, 0x01, 0x00, //   Usage (Generic Desktop: Pointer)
	0xA1, 0x00, //         Collection (Physical)
	0x0B, 0x30, 0x00, 0x01, 0x00, //     Usage (X)
	0x0B, 0x31, 0x00, 0x01, 0x00, //     Usage (Y)
	0x0B, 0x32, 0x00, 0x01, 0x00, //     Usage (Z)
	0x0B, 0x35, 0x00, 0x01, 0x00, //     Usage (Rz)
	0x15, 0x00, //         Logical Minimum (0)
	0x27, 0xFF, 0xFF, 0x00, 0x00, //     Logical Maximum (65535)
	0x75, 0x10, //         Report Size (16)
	0x95, 0x04, //         Report Count (4)
	0x81, 0x02, //         Input (Data,Var,Abs)
	0xC0, //               End Collection

	0x0B, 0x39, 0x00, 0x01, 0x00, //   Usage (Hat Switch)
	0x15, 0x00, //         Logical Minimum (0)
	0x25, 0x07, //         Logical Maximum (7)
	0x35, 0x00, //         Physical Minimum (0)
	0x46, 0x3B, 0x01, //   Physical Maximum (315)
	0x65, 0x14, //         Unit (English Rotation, Centimeter)
	0x75, 0x04, //         Report Size (4)
	0x95, 0x01, //         Report Count (1)
	0x81, 0x02, //         Input (Data,Var,Abs)

	0x05, 0x09, //         Usage Page (Button)
	0x19, 0x0F, //         Usage Minimum (0x0F)
	0x29, 0x12, //         Usage Maximum (0x12)
	0x15, 0x00, //         Logical Minimum (0)
	0x25, 0x01, //         Logical Maximum (1)
	0x75, 0x01, //         Report Size (1)
	0x95, 0x04, //         Report Count (4)
	0x81, 0x02, //         Input (Data,Var,Abs)
	0x75, 0x08, //         Report Size (8)
	0x95, 0x34, //         Report Count (52)
	0x81, 0x03, //         Input (Const,Var,Abs) - padding

	0x06, 0x00, 0xFF, //   Usage Page (Vendor Defined 0xFF00)

	0x85, 0x21, //         Report ID (33)
	0x09, 0x01, //         Usage (Vendor Defined 1)
	0x75, 0x08, //         Report Size (8)
	0x95, 0x3F, //         Report Count (63)
	0x81, 0x03, //         Input (Const,Var,Abs)

	0x85, 0x81, //         Report ID (0x81)
	0x09, 0x02, //         Usage (Vendor Defined 2)
	0x75, 0x08, //         Report Size (8)
	0x95, 0x3F, //         Report Count (63)
	0x81, 0x03, //         Input (Const,Var,Abs)

	0x85, 0x01, //         Report ID (1)
	0x09, 0x03, //         Usage (Vendor Defined 3)
	0x75, 0x08, //         Report Size (8)
	0x95, 0x3F, //         Report Count (63)
	0x91, 0x83, //         Output (Const,Var,Abs,Volatile)

	0x85, 0x10, //         Report ID (16)
	0x09, 0x04, //         Usage (Vendor Defined 4)
	0x75, 0x08, //         Report Size (8)
	0x95, 0x3F, //         Report Count (63)
	0x91, 0x83, //         Output (Const,Var,Abs,Volatile)

	0x85, 0x80, //         Report ID (0x80)
	0x09, 0x05, //         Usage (Vendor Defined 5)
	0x75, 0x08, //         Report Size (8)
	0x95, 0x3F, //         Report Count (63)
	0x91, 0x83, //         Output (Const,Var,Abs,Volatile)

	0x85, 0x82, //         Report ID (0x82)
	0x09, 0x06, //         Usage (Vendor Defined 6)
	0x75, 0x08, //         Report Size (8)
	0x95, 0x3F, //         Report Count (63)
	0x91, 0x83, //         Output (Const,Var,Abs,Volatile)

	0xC0, //             End Collection
}

// ReportDescriptor returns the Pro Controller's HID report descriptor bytes.
func ReportDescriptor() []byte {
	return reportDescriptor
}

// BuildDevice constructs the Pro Controller's USB device, configuration, HID
// interface, and two 64-byte/8ms interrupt endpoints, and attaches a HID
// class driver carrying reportDescriptor.
//
// The teacher's hid.HID.ConfigureDevice/ConfigureDeviceWithOutEP hardcode
// maxPacketSize=8 and never set Interval (see DESIGN.md), so the interface
// and endpoints are built directly here instead of through those helpers.
func BuildDevice(ctx context.Context) (*device.Device, *hid.HID, error) {
	builder := device.NewDeviceBuilder().
		WithDescriptor(&device.DeviceDescriptor{
			Length:         device.DeviceDescriptorSize,
			DescriptorType: device.DescriptorTypeDevice,
			USBVersion:     0x0200,
			MaxPacketSize0: 64,
			VendorID:       VendorID,
			ProductID:      ProductID,
			DeviceVersion:  DeviceVersion,
		}).
		WithStrings(ManufacturerString, ProductString, SerialString).
		AddConfiguration(configurationValue).
		AddInterface(hid.ClassHID, 0x00, 0x00).
		AddEndpoint(InEndpointAddress, device.EndpointTypeInterrupt, endpointMaxPacketSize).
		AddEndpoint(OutEndpointAddress, device.EndpointTypeInterrupt, endpointMaxPacketSize)

	dev, err := builder.Build(ctx)
	if err != nil {
		return nil, nil, err
	}

	config := dev.GetConfiguration(configurationValue)
	iface := config.GetInterface(interfaceNumber)
	for _, ep := range iface.Endpoints() {
		ep.Interval = endpointInterval
	}

	driver := hid.New(reportDescriptor)
	if err := driver.AttachToInterface(dev, configurationValue, interfaceNumber); err != nil {
		return nil, nil, err
	}

	pkg.LogDebug(pkg.ComponentProCon, "pro controller device built",
		"vendorID", VendorID, "productID", ProductID)

	return dev, driver, nil
}
