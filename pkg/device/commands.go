package device

import (
	"fmt"
	"strconv"
	"strings"
)

// Well-known command strings.
const (
	CmdDevices    = "devices"
	CmdScreenSize = "shell wm size"
	CmdUIDump     = "shell uiautomator dump"
	CmdContacts   = "shell content query --uri content://contacts/phones --projection display_name:number"

	// DumpPath is where uiautomator writes its dump by default.
	DumpPath = "/sdcard/window_dump.xml"

	// ScreenshotPath is the on-device location used for screenshots.
	ScreenshotPath = "/sdcard/screenshot.png"
)

// Common Android keycodes.
const (
	KeyHome   = 3
	KeyBack   = 4
	KeyEnter  = 66
	KeySearch = 84
)

var keyNames = map[int]string{
	KeyHome:   "home",
	KeyBack:   "back",
	KeyEnter:  "enter",
	KeySearch: "search",
}

// KeyName returns a readable name for a common keycode, or "" when it has none.
func KeyName(keycode string) string {
	code, err := strconv.Atoi(strings.TrimSpace(keycode))
	if err != nil {
		return ""
	}
	return keyNames[code]
}

// Tap returns the command that taps at (x, y).
func Tap(x, y int) string {
	return fmt.Sprintf("shell input tap %d %d", x, y)
}

// InputText returns the command that types text into the focused field.
func InputText(text string) string {
	return fmt.Sprintf(`shell input text "%s"`, EncodeText(text))
}

// KeyEvent returns the command that sends a key event.
func KeyEvent(keycode string) string {
	return "shell input keyevent " + keycode
}

// Swipe returns the command that swipes from (x1, y1) to (x2, y2) over durationMs.
func Swipe(x1, y1, x2, y2, durationMs int) string {
	return fmt.Sprintf("shell input swipe %d %d %d %d %d", x1, y1, x2, y2, durationMs)
}

// StartActivity returns the command that starts an explicit component ("pkg/.Activity").
func StartActivity(component string) string {
	return "shell am start -n " + component
}

// LaunchApp returns the command that launches the default activity of a package.
func LaunchApp(pkg string) string {
	return fmt.Sprintf("shell monkey -p %s -c android.intent.category.LAUNCHER 1", pkg)
}

// OpenURL returns the command that opens url. browser "opera" targets Opera explicitly,
// anything else uses the system VIEW intent.
func OpenURL(url, browser string) string {
	if strings.EqualFold(browser, "opera") {
		return fmt.Sprintf(`shell am start -n com.opera.browser/com.opera.Opera -d "%s"`, url)
	}
	return fmt.Sprintf(`shell am start -a android.intent.action.VIEW -d "%s"`, url)
}

// Call returns the command that dials number.
func Call(number string) string {
	return "shell am start -a android.intent.action.CALL -d tel:" + number
}

// Email returns the command that opens the mail composer.
func Email(to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `shell am start -a android.intent.action.SENDTO -d "mailto:%s"`, to)
	if subject != "" {
		fmt.Fprintf(&b, ` --es android.intent.extra.SUBJECT "%s"`, subject)
	}
	if body != "" {
		fmt.Fprintf(&b, ` --es android.intent.extra.TEXT "%s"`, body)
	}
	return b.String()
}

// Cat returns the command that prints a device file.
func Cat(path string) string {
	return "shell cat " + path
}

// Screencap returns the command that writes a PNG screenshot on the device.
func Screencap(path string) string {
	return "shell screencap -p " + path
}

// Pull returns the command that copies a device file to the host.
func Pull(remote, local string) string {
	return fmt.Sprintf("pull %s %s", remote, local)
}
