// Package bus implements the change-notification fan-out between the record
// store and connected observers.
//
// The bus carries a lightweight event token, never data. Delivery is
// best-effort with no queuing across subscriptions: correctness depends on
// subscribers treating an event purely as "something changed, re-read the
// snapshot", never as a delivery-guaranteed log.
package bus
