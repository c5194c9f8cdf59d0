package uart

// Channel is a byte-wide producer to consumer link with a ready/valid
// handshake. Data and Valid are driven by the producer only, Ready by the
// consumer only. Data is meaningful only while Valid is asserted.
type Channel struct {
	Data  uint8
	Ready bool
	Valid bool
}

// Fire reports whether a transfer happens on the current tick.
func (c *Channel) Fire() bool {
	return c.Ready && c.Valid
}

// Connect wires a producer port to a consumer port for the current tick:
// Data and Valid flow forward, Ready flows back. Both sides must have been
// driven already.
func Connect(producer, consumer *Channel) {
	consumer.Data, consumer.Valid = producer.Data, producer.Valid
	producer.Ready = consumer.Ready
}
