// Package viz is the terminal view of a sorting run.
//
// The package implements the TUI using the Bubble Tea framework:
//
//   - [Model]: one controller shown as algorithm tabs, a row of cards and a
//     stats panel with a cost chart
//   - [Canvas]: Braille-based pixel canvas used for the bar view
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	s      - Start the selected algorithm
//	Space  - Step once
//	r      - Reset the selected algorithm
//	a      - Toggle autoplay
//	Tab    - Next algorithm (only while idle)
//	x      - Shuffle
//	+/-    - Change the number of cards
//	o      - Cycle the initial order
//	v      - Toggle cards/bars
//	w      - Save the current run
//	t      - Cycle color themes
//	?      - Show help
//
// Swap highlights fade after a delay on the view's own copy of the cards;
// the deck itself keeps them until the next step.
package viz
