package sim

// Keys is the directional input sampled once per tick.
type Keys struct {
	Up, Down, Left, Right bool
}

// Bits packs the keys into the low nibble: up, down, left, right.
func (k Keys) Bits() uint8 {
	var b uint8
	if k.Up {
		b |= 1
	}
	if k.Down {
		b |= 2
	}
	if k.Left {
		b |= 4
	}
	if k.Right {
		b |= 8
	}
	return b
}

// KeysFromBits is the inverse of Bits.
func KeysFromBits(b uint8) Keys {
	return Keys{Up: b&1 != 0, Down: b&2 != 0, Left: b&4 != 0, Right: b&8 != 0}
}
