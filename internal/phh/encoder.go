package phh

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lox/handcoach/internal/hand"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, h *HandHistory) error {
	if h == nil {
		return fmt.Errorf("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	// Use tabs for arrays to match human expectations
	enc.Indent = "\t"
	return enc.Encode(h)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(h *HandHistory) ([]byte, error) {
	var buf strings.Builder
	if err := Encode(&buf, h); err != nil {
		return nil, err
	}
	return []byte(buf.String()), nil
}

// FormatAction converts an action entry to a PHH action string for player
// index seat (0-based). Sizeless all-ins and the analysis marker have no
// PHH form and are kept as comments.
func FormatAction(seat int, entry hand.ActionEntry) string {
	player := fmt.Sprintf("p%d", seat+1)
	switch entry.Action {
	case hand.Fold:
		return player + " f"
	case hand.Check, hand.Call:
		return player + " cc"
	case hand.Bet, hand.Raise, hand.AllIn:
		if !entry.HasAmount() {
			return fmt.Sprintf("# %s %s", player, entry.Action)
		}
		return fmt.Sprintf("%s cbr %s", player, formatAmount(entry.Amount))
	default:
		return fmt.Sprintf("# %s %s", player, entry.Action)
	}
}

// unseatedAction renders an action whose position is not at the table as a
// comment, e.g. "# UTG raise 3".
func unseatedAction(entry hand.ActionEntry) string {
	line := fmt.Sprintf("# %s %s", entry.Position, entry.Action)
	if entry.HasAmount() {
		line += " " + formatAmount(entry.Amount)
	}
	return line
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
