package domain

// ActionKind names the kind of work a Step asks for.
// The set is closed: the engine has exactly one handler per declared kind.
// Values outside the set are accepted at decode time and fail at execution time.
type ActionKind string

const (
	// ActionMessagingSend opens the messaging app, finds the recipient and sends Text.
	// Target: recipient name or number. Text: message body.
	ActionMessagingSend ActionKind = "whatsapp"

	// ActionWait pauses the plan.
	// Target: duration in milliseconds.
	ActionWait ActionKind = "wait"

	// ActionTap taps the screen.
	// Target: "x,y".
	ActionTap ActionKind = "tap"

	// ActionOpenURL opens a URL in a browser.
	// Target: URL. Browser: optional browser name ("opera").
	ActionOpenURL ActionKind = "open_url"

	// ActionOpenApp launches an app by package name.
	// Target: package name.
	ActionOpenApp ActionKind = "open_app"

	// ActionCall dials a number, resolving contact names first.
	// Target: phone number or contact name.
	ActionCall ActionKind = "call"

	// ActionEmail opens the mail composer.
	// Target: address. Subject: optional. Text: optional body.
	ActionEmail ActionKind = "email"

	// ActionType types text into the focused field.
	// Text: the text.
	ActionType ActionKind = "type"

	// ActionKey sends a key event.
	// Target: Android keycode.
	ActionKey ActionKind = "key"
)

// ActionKinds returns every declared kind, in declaration order.
func ActionKinds() []ActionKind {
	return []ActionKind{
		ActionMessagingSend,
		ActionWait,
		ActionTap,
		ActionOpenURL,
		ActionOpenApp,
		ActionCall,
		ActionEmail,
		ActionType,
		ActionKey,
	}
}

// Known reports whether k is part of the declared set.
func (k ActionKind) Known() bool {
	for _, known := range ActionKinds() {
		if k == known {
			return true
		}
	}
	return false
}

func (k ActionKind) String() string {
	return string(k)
}
