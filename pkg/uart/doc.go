// Package uart provides a cycle accurate model of a bit-level serial
// transceiver.
//
// Every component is a Module advanced by a Clock in two phases per tick.
// Drive publishes output ports computed from the current registers only,
// then Update latches the next registers from the current registers and
// the input ports. Since no Update runs before every Drive of the same tick
// has completed, no component observes another's update within a tick.
//
// Components talk over Channel, a byte-wide ready/valid link. A byte moves
// from producer to consumer on exactly the tick where both Ready and Valid
// are asserted.
//
// Line levels are bools: true is mark (idle, stop bits, logical 1) and
// false is space (start bit, logical 0).
package uart
