package device

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/adbpilot/pkg/domain"
)

var screenSizePattern = regexp.MustCompile(`(\d+)x(\d+)`)

// ParseScreenSize extracts "WxH" from `wm size` output ("Physical size: 1080x2340").
// ok is false, and the default size is returned, when no size is present.
func ParseScreenSize(output string) (size domain.ScreenSize, ok bool) {
	m := screenSizePattern.FindStringSubmatch(output)
	if m == nil {
		return domain.DefaultScreenSize, false
	}
	w, errW := strconv.Atoi(m[1])
	h, errH := strconv.Atoi(m[2])
	if errW != nil || errH != nil {
		return domain.DefaultScreenSize, false
	}
	return domain.ScreenSize{Width: w, Height: h}, true
}

// ParseDevices parses `adb devices` output: a header line followed by "id\tstate" records.
func ParseDevices(output string) []domain.Device {
	lines := strings.Split(output, "\n")
	devices := []domain.Device{}
	if len(lines) < 2 {
		return devices
	}
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || !strings.Contains(line, "\t") {
			continue
		}
		id, status, _ := strings.Cut(line, "\t")
		devices = append(devices, domain.Device{
			ID:     strings.TrimSpace(id),
			Status: strings.TrimSpace(status),
		})
	}
	return devices
}

// Status builds a DeviceStatus from the result of the devices command.
func Status(res domain.CommandResult) domain.DeviceStatus {
	if !res.Success {
		return domain.DeviceStatus{
			Connected: false,
			Message:   "ADB not available",
			Error:     res.Error,
		}
	}
	devices := ParseDevices(res.Output)
	return domain.DeviceStatus{
		Connected: len(devices) > 0,
		Message:   fmt.Sprintf("Found %d device(s)", len(devices)),
		Devices:   devices,
	}
}

var (
	contactName   = regexp.MustCompile(`display_name=([^,]+)`)
	contactNumber = regexp.MustCompile(`number=([^,\s]+)`)
)

// ParseContacts parses `content query` rows ("Row: 0 display_name=Ana, number=+5511...").
func ParseContacts(output string) []domain.Contact {
	contacts := []domain.Contact{}
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "display_name=") || !strings.Contains(line, "number=") {
			continue
		}
		name := contactName.FindStringSubmatch(line)
		number := contactNumber.FindStringSubmatch(line)
		if name == nil || number == nil {
			continue
		}
		c := domain.Contact{
			Name:   strings.TrimSpace(name[1]),
			Number: strings.TrimSpace(number[1]),
		}
		if c.Name != "" && c.Number != "" {
			contacts = append(contacts, c)
		}
	}
	return contacts
}

// SearchContacts returns every contact whose name contains query, case-insensitively.
func SearchContacts(contacts []domain.Contact, query string) []domain.Contact {
	q := strings.ToLower(query)
	matches := []domain.Contact{}
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), q) {
			matches = append(matches, c)
		}
	}
	return matches
}

// ParsePoint parses an "x,y" coordinate pair.
func ParsePoint(s string) (domain.Point, error) {
	xs, ys, found := strings.Cut(s, ",")
	if !found {
		return domain.Point{}, fmt.Errorf("invalid coordinates %q: expected \"x,y\"", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return domain.Point{}, fmt.Errorf("invalid x coordinate %q: %w", xs, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return domain.Point{}, fmt.Errorf("invalid y coordinate %q: %w", ys, err)
	}
	return domain.Point{X: x, Y: y}, nil
}
