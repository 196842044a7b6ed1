package runtime

import (
	"time"

	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/uidump"
)

// MessagingProfile describes the messaging app driven by the messaging-send action.
type MessagingProfile struct {
	// Component is the explicit activity started to open the app.
	Component string `yaml:"component"`
	// SendMarker identifies the send control in the UI dump.
	SendMarker string `yaml:"send_marker"`
	// Fallback is tapped when the send control cannot be located in the dump.
	Fallback domain.Point `yaml:"fallback"`
	// ResultX and ResultY locate the first search result as fractions of the screen.
	ResultX float64 `yaml:"result_x"`
	ResultY float64 `yaml:"result_y"`
	// DumpPath is the on-device file written by uiautomator.
	DumpPath string `yaml:"dump_path"`
	// Screen is used when the device does not report its size.
	Screen domain.ScreenSize `yaml:"screen"`

	Delays MessagingDelays `yaml:"delays"`
}

// MessagingDelays are the settle times after each UI transition.
type MessagingDelays struct {
	AppLaunch      time.Duration `yaml:"app_launch"`
	SearchOpen     time.Duration `yaml:"search_open"`
	RecipientEntry time.Duration `yaml:"recipient_entry"`
	ResultSelect   time.Duration `yaml:"result_select"`
	MessageTyped   time.Duration `yaml:"message_typed"`
}

// DefaultMessagingProfile targets WhatsApp on a 720x1600 display.
func DefaultMessagingProfile() MessagingProfile {
	return MessagingProfile{
		Component:  "com.whatsapp/.Main",
		SendMarker: "com.whatsapp:id/send",
		Fallback:   domain.Point{X: 671, Y: 802},
		ResultX:    0.5,
		ResultY:    0.25,
		DumpPath:   device.DumpPath,
		Screen:     domain.DefaultScreenSize,
		Delays: MessagingDelays{
			AppLaunch:      2500 * time.Millisecond,
			SearchOpen:     time.Second,
			RecipientEntry: 1500 * time.Millisecond,
			ResultSelect:   2 * time.Second,
			MessageTyped:   time.Second,
		},
	}
}

func (p MessagingProfile) marker() uidump.Marker {
	return uidump.ResourceID(p.SendMarker)
}

// withDefaults fills zero fields from DefaultMessagingProfile.
func (p MessagingProfile) withDefaults() MessagingProfile {
	def := DefaultMessagingProfile()
	if p.Component == "" {
		p.Component = def.Component
	}
	if p.SendMarker == "" {
		p.SendMarker = def.SendMarker
	}
	if p.Fallback == (domain.Point{}) {
		p.Fallback = def.Fallback
	}
	if p.ResultX <= 0 || p.ResultX > 1 {
		p.ResultX = def.ResultX
	}
	if p.ResultY <= 0 || p.ResultY > 1 {
		p.ResultY = def.ResultY
	}
	if p.DumpPath == "" {
		p.DumpPath = def.DumpPath
	}
	if p.Screen.Width <= 0 || p.Screen.Height <= 0 {
		p.Screen = def.Screen
	}
	return p
}
