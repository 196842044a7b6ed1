// Package runtime implements the plan executor.
//
// An Executor walks a plan step by step, dispatching each step to the handler for its
// action kind and turning handler errors and panics into failed step results. The
// messaging-send action is a small state machine whose pauses are delegated to a
// ports.Pacer.
package runtime
