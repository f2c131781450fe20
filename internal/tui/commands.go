package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/session"
)

// CommandKind is what a typed command asks for beyond a plain intent.
type CommandKind int

const (
	CommandIntent CommandKind = iota
	CommandSubmit
	CommandAsk
	CommandCards
	CommandView
	CommandHelp
	CommandQuit
)

// Command is one parsed line of input.
type Command struct {
	Kind   CommandKind
	Intent session.Intent
	Text   string
}

const helpText = `players +1|-1|N     change the player count
stack POS BB        set a stack, e.g. stack BTN 50
hero POS            move the hero, e.g. hero CO
card SLOT CARD      set a card, e.g. card h1 As, card flop2 7d, card turn K
clear SLOT          empty a card slot
cards SLOT          list the cards that can go into a slot
act [STREET] POS ACTION [BB]
                    add an action, e.g. act CO raise 3, act BB ?
undo N [STREET]     remove action N from the street
next | back | goto N
submit              send the finished hand for analysis
ask QUESTION        follow up on the analysis
view preview|analysis
new                 start a new hand
quit`

// ParseCommand parses one input line. current is the hand the command will
// apply to; it resolves absolute player counts.
func ParseCommand(line string, current hand.State) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("type a command, or help")
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	intent := func(in session.Intent) (Command, error) {
		return Command{Kind: CommandIntent, Intent: in}, nil
	}
	want := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}

	switch verb {
	case "players", "p":
		if err := want(1, "players +1|-1|N"); err != nil {
			return Command{}, err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("players: %q is not a number", args[0])
		}
		delta := n
		if !strings.HasPrefix(args[0], "+") && !strings.HasPrefix(args[0], "-") {
			delta = n - current.PlayerCount
		}
		return intent(session.Intent{Type: session.SetPlayerCount, Delta: delta})

	case "stack":
		if err := want(2, "stack POS BB"); err != nil {
			return Command{}, err
		}
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q", hand.ErrInvalidStack, args[1])
		}
		return intent(session.Intent{Type: session.SetStack, Position: args[0], Stack: v})

	case "hero":
		if err := want(1, "hero POS"); err != nil {
			return Command{}, err
		}
		return intent(session.Intent{Type: session.SetHeroPosition, Position: args[0]})

	case "card", "c":
		if err := want(2, "card SLOT CARD"); err != nil {
			return Command{}, err
		}
		return intent(session.Intent{Type: session.SetCard, Slot: args[0], Card: args[1]})

	case "clear":
		if err := want(1, "clear SLOT"); err != nil {
			return Command{}, err
		}
		return intent(session.Intent{Type: session.ClearCard, Slot: args[0]})

	case "cards":
		if err := want(1, "cards SLOT"); err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandCards, Text: args[0]}, nil

	case "act", "a":
		return parseAct(args)

	case "undo":
		if err := want(1, "undo N [STREET]"); err != nil {
			return Command{}, err
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("undo: %q is not an action number", args[0])
		}
		in := session.Intent{Type: session.RemoveAction, Index: idx}
		if len(args) > 1 {
			in.Street = args[1]
		}
		return intent(in)

	case "next", "n":
		return intent(session.Intent{Type: session.Next})
	case "back", "b":
		return intent(session.Intent{Type: session.Back})
	case "goto":
		if err := want(1, "goto N"); err != nil {
			return Command{}, err
		}
		step, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("goto: %q is not a step number", args[0])
		}
		return intent(session.Intent{Type: session.Jump, Step: step})
	case "new":
		return intent(session.Intent{Type: session.Reset})

	case "submit":
		return Command{Kind: CommandSubmit}, nil
	case "ask":
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if text == "" {
			return Command{}, fmt.Errorf("usage: ask QUESTION")
		}
		return Command{Kind: CommandAsk, Text: text}, nil
	case "view":
		if err := want(1, "view preview|analysis"); err != nil {
			return Command{}, err
		}
		return Command{Kind: CommandView, Text: strings.ToLower(args[0])}, nil
	case "help", "?":
		return Command{Kind: CommandHelp}, nil
	case "quit", "exit":
		return Command{Kind: CommandQuit}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q, type help", fields[0])
}

// parseAct handles "act [STREET] POS ACTION [AMOUNT]".
func parseAct(args []string) (Command, error) {
	const usage = "usage: act [STREET] POS ACTION [BB]"
	in := session.Intent{Type: session.AddAction}
	if len(args) > 0 {
		if _, err := hand.ParseStreet(args[0]); err == nil {
			in.Street, args = args[0], args[1:]
		}
	}
	if len(args) < 2 || len(args) > 3 {
		return Command{}, errors.New(usage)
	}
	in.Position, in.Action = args[0], args[1]
	if len(args) == 3 {
		v, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return Command{}, fmt.Errorf("%w: %q", hand.ErrInvalidAmount, args[2])
		}
		in.Amount = v
	}
	return Command{Kind: CommandIntent, Intent: in}, nil
}
