/*
Package device holds the adb vocabulary used by adbpilot: the command strings sent to the
bridge and the parsers for what the bridge prints back.

Command strings are relative to the bridge binary (no leading "adb"), exactly what a
ports.CommandChannel expects.
*/
package device
