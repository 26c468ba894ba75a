// Package parallel holds the data-parallel building blocks: splitting an index
// range into contiguous blocks and running one task per block on a worker
// pool of fixed size.
package parallel
