// Package reembed recomputes the vectors of stored memory entries, typically
// after switching to a new embedding model.
//
// Entries are read in insertion order in batches, embedded with retry and
// exponential backoff, normalized and written back. Batches are embedded
// concurrently on a worker pool. After every window of batches the last
// processed sequence number is saved as a checkpoint, so an interrupted run
// resumes where it stopped instead of starting over.
package reembed
