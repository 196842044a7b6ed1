/*
Package adb is the Command Channel: the only component that talks to the device.

Each call runs the adb binary once with a bounded wait and reports stdout, stderr and
success as a domain.CommandResult. Failures never surface as Go errors.
*/
package adb
