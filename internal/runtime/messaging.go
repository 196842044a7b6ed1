package runtime

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/aretw0/adbpilot/pkg/device"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/uidump"
)

// MessagingState names a stage of the messaging-send sequence.
type MessagingState string

const (
	StateMeasuring        MessagingState = "measuring"
	StateAppLaunching     MessagingState = "app_launching"
	StateSearchOpen       MessagingState = "search_open"
	StateRecipientEntered MessagingState = "recipient_entered"
	StateResultSelected   MessagingState = "result_selected"
	StateMessageTyped     MessagingState = "message_typed"
	StateSendResolved     MessagingState = "send_resolved"
	StateDone             MessagingState = "done"
)

// Outputs reported by the messaging-send step.
const (
	OutputMessageSent     = "Message sent successfully"
	OutputMessageFallback = "Message sent (fallback method)"
)

// messagingRun is the mutable state of one messaging-send step.
type messagingRun struct {
	step       domain.Step
	screen     domain.ScreenSize
	resolution uidump.Resolution
	logger     *slog.Logger
}

// transition performs the work of one state and returns the next one.
type transition func(ctx context.Context, m *messagingRun) MessagingState

func (e *Executor) messagingTransitions() map[MessagingState]transition {
	p := e.profile
	return map[MessagingState]transition{
		StateMeasuring: func(ctx context.Context, m *messagingRun) MessagingState {
			res := e.channel.Run(ctx, device.CmdScreenSize)
			size, ok := device.ParseScreenSize(res.Output)
			if !ok {
				size = p.Screen
			}
			m.screen = size
			m.logger.Debug("Screen measured", "width", size.Width, "height", size.Height, "reported", ok)
			return StateAppLaunching
		},
		StateAppLaunching: func(ctx context.Context, m *messagingRun) MessagingState {
			e.subCommand(ctx, m, device.StartActivity(p.Component))
			e.pacer.Settle(ctx, PhaseAppLaunching, p.Delays.AppLaunch)
			return StateSearchOpen
		},
		StateSearchOpen: func(ctx context.Context, m *messagingRun) MessagingState {
			e.subCommand(ctx, m, device.KeyEvent(strconv.Itoa(device.KeySearch)))
			e.pacer.Settle(ctx, PhaseSearchOpen, p.Delays.SearchOpen)
			return StateRecipientEntered
		},
		StateRecipientEntered: func(ctx context.Context, m *messagingRun) MessagingState {
			e.subCommand(ctx, m, device.InputText(m.step.Target))
			e.pacer.Settle(ctx, PhaseRecipientEntered, p.Delays.RecipientEntry)
			return StateResultSelected
		},
		StateResultSelected: func(ctx context.Context, m *messagingRun) MessagingState {
			x := int(float64(m.screen.Width) * p.ResultX)
			y := int(float64(m.screen.Height) * p.ResultY)
			e.subCommand(ctx, m, device.Tap(x, y))
			e.pacer.Settle(ctx, PhaseResultSelected, p.Delays.ResultSelect)
			return StateMessageTyped
		},
		StateMessageTyped: func(ctx context.Context, m *messagingRun) MessagingState {
			e.subCommand(ctx, m, device.InputText(m.step.Text))
			e.pacer.Settle(ctx, PhaseMessageTyped, p.Delays.MessageTyped)
			return StateSendResolved
		},
		StateSendResolved: func(ctx context.Context, m *messagingRun) MessagingState {
			e.subCommand(ctx, m, device.CmdUIDump)
			dump := e.channel.Run(ctx, device.Cat(p.DumpPath))
			m.resolution = uidump.Resolve(dump.Output, p.marker(), p.Fallback)
			if m.resolution.Resolved {
				m.logger.Debug("Send control located", "bounds", m.resolution.Bounds, "point", m.resolution.Point)
			} else {
				m.logger.Info("Send control not found, using fallback", "point", m.resolution.Point)
			}
			e.subCommand(ctx, m, device.Tap(m.resolution.Point.X, m.resolution.Point.Y))
			return StateDone
		},
	}
}

// sendMessage drives the messaging app through the send sequence.
//
// The step reports success whenever the sequence completes: sub-command failures are logged,
// and an unresolved send control is only reflected in the output text.
func (e *Executor) sendMessage(ctx context.Context, step domain.Step) (domain.StepOutcome, error) {
	if step.Target == "" {
		return domain.StepOutcome{}, domain.Failf(step.Action, "whatsapp requires a recipient target")
	}

	m := &messagingRun{
		step:   step,
		logger: e.logger.With("action", step.Action, "recipient", step.Target),
	}
	transitions := e.messagingTransitions()
	state := StateMeasuring
	for state != StateDone {
		next, ok := transitions[state]
		if !ok {
			return domain.StepOutcome{}, domain.Failf(step.Action, "no transition from state %s", state)
		}
		m.logger.Debug("Messaging state", "state", state)
		state = next(ctx, m)
	}

	if m.resolution.Resolved {
		return domain.StepOutcome{Output: OutputMessageSent}, nil
	}
	return domain.StepOutcome{Output: OutputMessageFallback}, nil
}

func (e *Executor) subCommand(ctx context.Context, m *messagingRun, command string) {
	if res := e.channel.Run(ctx, command); !res.Success {
		m.logger.Warn("Messaging sub-command failed", "command", command, "error", res.Error)
	}
}
