// internal/mirror/layout.go
package mirror

// Console mirror block layout (holding registers, relative to the base address).
// These values define the protocol and MUST NOT be configurable.

// ---- LIVE STATUS ----

// SlotHealthCode holds the serial link health.
const SlotHealthCode = 0

// SlotLastErrorCode holds the code of the last rejected frame or link error.
const SlotLastErrorCode = 1

// SlotSecondsInError holds how long the link has been unhealthy.
const SlotSecondsInError = 2

// ---- SESSION ----

const SlotRegistration = 3
const SlotVolume = 4
const SlotReverb = 5

// SlotDecodeErrors counts rejected frames since start, saturating.
const SlotDecodeErrors = 6

// ---- DRAWBARS ----

// DrawbarsPerRegistration is 9 upper slots followed by the lower slot.
const DrawbarsPerRegistration = 10

// SlotDrawbarsStart is registration 1 upper slot 0; registration 2
// follows immediately.
const SlotDrawbarsStart = 7

const SlotDrawbarsEnd = SlotDrawbarsStart + 2*DrawbarsPerRegistration - 1

// DrawbarUnknown marks a drawbar not reported yet.
const DrawbarUnknown uint16 = 0xFFFF

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the block.
const SlotDeviceNameStart = SlotDrawbarsEnd + 1

const SlotDeviceNameSlots = 8

const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// SlotsPerBlock is the fixed size of the block.
const SlotsPerBlock = SlotDeviceNameEnd + 1

// ---- HEALTH CODES ----

const (
	HealthUnknown uint16 = 0
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
)
