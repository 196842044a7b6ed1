// Package memory provides in-process implementations of the adbpilot ports:
// a run store, a per-key locker and a scripted command channel used for dry runs and tests.
package memory
