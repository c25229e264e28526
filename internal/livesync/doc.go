// Package livesync keeps a read-only replica of the ratings dataset in sync
// with an origin server.
//
// The replica polls on a clamped interval as a safety net and refreshes
// immediately when the origin's change stream signals an update. Stream
// events carry no data; every notification triggers a full snapshot fetch,
// and concurrent triggers coalesce into the in-flight fetch.
package livesync
