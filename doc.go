/*
Package adbpilot drives an Android device through the adb bridge using declarative automation plans.

A plan is an ordered list of steps (open an app, tap, type, wait, send a message, ...). The
executor runs the steps strictly in sequence, turns each into one or more adb commands with
pauses in between, and reports one result per step. A failed step never aborts the plan:
callers always get the full ordered report.

# Architecture

  - Command channel (pkg/adapters/adb): runs `adb <command>` with a bounded wait and returns
    success, output and error as data.
  - Executor (internal/runtime): closed dispatch over the action kinds, per-step failure
    isolation, and the messaging-send state machine with pluggable pacing.
  - UI resolver (pkg/uidump): finds an element's bounds in a uiautomator dump and taps its center.
  - Adapters: HTTP (chi), MCP, run journals (memory, redis, sqlite) and device locks.
  - Journal middleware (pkg/persistence/middleware): redaction and AES-GCM encryption of
    stored step results.

# Usage

	package main

	import (
		"context"
		"fmt"

		"github.com/aretw0/adbpilot"
		"github.com/aretw0/adbpilot/pkg/domain"
	)

	func main() {
		pilot := adbpilot.New()

		report := pilot.ExecutePlan(context.Background(), domain.Plan{Steps: []domain.Step{
			{Action: domain.ActionOpenURL, Target: "https://go.dev"},
			{Action: domain.ActionWait, Target: "1500"},
			{Action: domain.ActionTap, Target: "540,1200"},
		}})

		for _, r := range report.Results {
			fmt.Println(r.Step, r.Success, r.Error)
		}
	}
*/
package adbpilot
