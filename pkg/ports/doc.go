/*
Package ports defines the driven ports (interfaces) of the adbpilot engine.

These interfaces decouple the executor from the device bridge, timing policy, persistence and
concurrency control, so each can be swapped (real adb vs. a recording fake, fixed delays vs.
readiness polling, memory vs. redis vs. sqlite).

# Key Interfaces

  - CommandChannel: Executes one device bridge command and returns a CommandResult.
  - Pacer: Decides how long to wait between UI interactions.
  - RunStore: Persists the report of executed plans.
  - DistributedLocker: Serializes plans against the same device.
*/
package ports
