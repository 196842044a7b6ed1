package device_test

import (
	"testing"

	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScreenSize(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   domain.ScreenSize
		ok     bool
	}{
		{"physical", "Physical size: 1080x2340\n", domain.ScreenSize{Width: 1080, Height: 2340}, true},
		{"override wins first match", "Physical size: 1440x3200\nOverride size: 1080x2400", domain.ScreenSize{Width: 1440, Height: 3200}, true},
		{"no pattern", "error: no devices/emulators found", domain.ScreenSize{Width: 720, Height: 1600}, false},
		{"empty", "", domain.ScreenSize{Width: 720, Height: 1600}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := device.ParseScreenSize(tt.output)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestParseDevices(t *testing.T) {
	devices := device.ParseDevices("List of devices attached\nemulator-5554\tdevice\n")
	require.Len(t, devices, 1)
	assert.Equal(t, domain.Device{ID: "emulator-5554", Status: "device"}, devices[0])

	t.Run("multiple with CRLF and blanks", func(t *testing.T) {
		out := "List of devices attached\r\nR58M\tdevice\r\n\r\n192.168.0.7:5555\toffline\r\n"
		devices := device.ParseDevices(out)
		require.Len(t, devices, 2)
		assert.Equal(t, "R58M", devices[0].ID)
		assert.Equal(t, "offline", devices[1].Status)
	})

	t.Run("header only", func(t *testing.T) {
		assert.Empty(t, device.ParseDevices("List of devices attached\n\n"))
	})
}

func TestStatus(t *testing.T) {
	status := device.Status(domain.CommandResult{
		Success: true,
		Output:  "List of devices attached\nemulator-5554\tdevice\n",
	})
	assert.True(t, status.Connected)
	assert.Equal(t, "Found 1 device(s)", status.Message)
	assert.Equal(t, []domain.Device{{ID: "emulator-5554", Status: "device"}}, status.Devices)

	down := device.Status(domain.Failure("adb: not found"))
	assert.False(t, down.Connected)
	assert.Equal(t, "ADB not available", down.Message)
	assert.Equal(t, "adb: not found", down.Error)

	empty := device.Status(domain.CommandResult{Success: true, Output: "List of devices attached\n"})
	assert.False(t, empty.Connected)
	assert.Equal(t, "Found 0 device(s)", empty.Message)
}

func TestParseContacts(t *testing.T) {
	out := `Row: 0 display_name=Ana Souza, number=+5511999990000
Row: 1 display_name=Bob, number=555 123
Row: 2 number=1234
garbage line`
	contacts := device.ParseContacts(out)
	require.Len(t, contacts, 2)
	assert.Equal(t, domain.Contact{Name: "Ana Souza", Number: "+5511999990000"}, contacts[0])
	assert.Equal(t, domain.Contact{Name: "Bob", Number: "555"}, contacts[1])

	matches := device.SearchContacts(contacts, "ana")
	require.Len(t, matches, 1)
	assert.Equal(t, "Ana Souza", matches[0].Name)
	assert.Empty(t, device.SearchContacts(contacts, "zed"))
}

func TestParsePoint(t *testing.T) {
	p, err := device.ParsePoint("100,200")
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 100, Y: 200}, p)

	p, err = device.ParsePoint(" 5 , 7 ")
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 5, Y: 7}, p)

	for _, bad := range []string{"abc", "", "1,", ",2", "1;2", "x,2"} {
		_, err := device.ParsePoint(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
