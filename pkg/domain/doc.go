/*
Package domain contains the core models of the adbpilot automation engine.

It defines what a plan is, what a step asks the device to do, and what the engine reports back.
This package is kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Step: One declared intent in a plan (tap, wait, send a message...).
  - Plan: An ordered list of Steps, executed strictly in sequence.
  - StepResult: The observed outcome of one Step. Exactly one per input Step.
  - PlanReport: The ordered StepResults of a Plan. Plan-level success is unconditional.
  - CommandResult: The outcome of a single device bridge invocation.
*/
package domain
