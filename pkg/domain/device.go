package domain

// Device is one entry of the bridge's device list.
type Device struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DeviceStatus summarizes bridge connectivity.
type DeviceStatus struct {
	Connected bool     `json:"connected"`
	Message   string   `json:"message"`
	Devices   []Device `json:"devices,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Contact is an address book entry read from the device.
type Contact struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// ScreenSize is the device display size in pixels.
type ScreenSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DefaultScreenSize is used when the device does not report its size.
var DefaultScreenSize = ScreenSize{Width: 720, Height: 1600}

// ContactSearch is the outcome of a contact lookup.
// On a miss Contact is nil and Suggestions lists a few known names.
type ContactSearch struct {
	Contact     *Contact  `json:"contact"`
	Matches     []Contact `json:"allMatches,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
}
