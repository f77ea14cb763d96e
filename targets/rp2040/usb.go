//go:build rp2040

package main

import (
	"machine"
)

// InitUSB initializes USB serial communication
// machine.Serial is USB CDC on RP2040
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// USBAvailable returns the number of bytes available to read from USB
func USBAvailable() int {
	return machine.Serial.Buffered()
}

// USBRead reads a single byte from USB
func USBRead() (byte, error) {
	return machine.Serial.ReadByte()
}

// USBWriteLine writes one line terminated by CRLF
func USBWriteLine(s string) {
	_, _ = machine.Serial.Write([]byte(s))
	_, _ = machine.Serial.Write([]byte("\r\n"))
}
