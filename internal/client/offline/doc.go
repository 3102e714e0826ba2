// Package offline keeps reports captured without connectivity and flushes
// them to the server once the client is back online.
//
// Three parts cooperate:
//
//   - QueueStore persists the ordered queue of QueuedReport under one key of a
//     durable key/value store.
//   - Controller owns the persisted online/offline flag and tells subscribers
//     about transitions.
//   - Manager enqueues drafts while offline and drains the queue, one create
//     call at a time, each time the Controller goes back online.
//
// A drain reads the queue once; entries appended while it runs wait for the
// next drain. Entries the server accepted are removed together after the
// batch, so a crash mid-drain resubmits them. The server deduplicates creates
// on the entry ID, which travels as the report's client reference.
package offline
