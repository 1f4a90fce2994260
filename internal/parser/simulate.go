package parser

import (
	"fmt"
	"math/rand/v2"

	"VitalsKiosk/internal/model"
)

// UnknownReply answers a command the board does not understand.
const UnknownReply = "ERR unknown"

// SimulatedReply produces a plausible reply line for a command, as a board would.
func SimulatedReply(command string, rnd *rand.Rand) string {
	name, ok := DecodeCommand(command)
	if !ok {
		return UnknownReply
	}
	switch name {
	case model.Height:
		return fmt.Sprintf("%d", 150+rnd.IntN(41))
	case model.Temperature:
		return fmt.Sprintf("%.1f", 36.0+rnd.Float64()*1.5)
	case model.Pulse:
		return fmt.Sprintf("%d", 60+rnd.IntN(41))
	case model.BP:
		sys := 105 + rnd.IntN(31)
		dia := 65 + rnd.IntN(21)
		return fmt.Sprintf("%d/%d", sys, dia)
	case model.Weight:
		return fmt.Sprintf("%.1f", 50.0+rnd.Float64()*40.0)
	}
	return UnknownReply
}
