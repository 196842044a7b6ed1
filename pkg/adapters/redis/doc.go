// Package redis provides Redis-backed implementations of the run journal and the device lock.
package redis
