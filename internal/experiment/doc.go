// Package experiment runs a batch evaluation of explanation methods over a
// set of MRI slices.
//
// Each slice is decoded and prepared once, its tumour is located once, and
// every configured explanation tool is scored against that location.
// Slices are processed concurrently with a bounded number of workers; each
// worker owns its image buffers. Results keep the input order.
//
// A failure on one slice is recorded on its outcome and logged; it does not
// stop the batch. Cancelling the context does.
package experiment
