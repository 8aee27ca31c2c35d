package main

const configFile = `
# NOTE: Pins are physical header numbers for the raspi driver and BCM GPIO
# numbers for the periph driver.

# A contact must be stable this long before it counts as a press or release
DebounceMs = 35
# Switches 4-6 wait this long for a partner before a press is committed
ChordWindowMs = 120
PollIntervalMs = 2
# How long the bank splash stays up
SplashMs = 600

EEPROMPath = "/var/lib/stompctl/eeprom.bin"

[GPIO]
	# "raspi" or "periph"
	Driver = "raspi"

[MIDI]
	# "rtmidi" for a system MIDI port, "serial" for a DIN socket on a UART
	Driver = "serial"
	Port = "/dev/ttyAMA0"
	Baud = 31250

[Console]
	# serial device for the SET/SAVE/LOAD/DUMP console, "-" for stdin/stdout
	Port = "/dev/ttyGS0"
	Baud = 115200

# Exactly six switches. 1-3 bottom row, 4-6 top row.
# 4+5 pressed together is bank down, 5+6 is bank up.
[[Switch]]
	Name = "SW1"
	Pin = 11
[[Switch]]
	Name = "SW2"
	Pin = 13
[[Switch]]
	Name = "SW3"
	Pin = 15
[[Switch]]
	Name = "SW4"
	Pin = 16
[[Switch]]
	Name = "SW5"
	Pin = 18
[[Switch]]
	Name = "SW6"
	Pin = 22
	# Uncomment to interpret pin ` + "`HIGH`" + ` as the contact being closed instead of ` + "`LOW`" + ` (the default)
	# Invert = true
`
