// Package run drives one deck through the step-wise sorting algorithms.
//
// A Controller owns the deck, a cursor and a set of counters per
// algorithm, and the run state. Views call Start, Step, Reset, Select,
// Configure and Shuffle and re-render from the Event each mutating call
// publishes to registered observers. Actions that make no sense in the
// current state (stepping while idle, starting while another algorithm
// runs) are silently ignored.
//
// A Controller is not safe for concurrent use. Each view serialises its
// own calls.
package run
