// Package scenario reads hands described in HCL and replays them into a
// session, so a file goes through the same checks as interactive input.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/session"
	"github.com/lox/handcoach/internal/wizard"
)

// File is one hand description.
type File struct {
	Players int                `hcl:"players,optional"`
	Hero    string             `hcl:"hero,optional"`
	Hand    []string           `hcl:"hand,optional"`
	Stacks  map[string]float64 `hcl:"stacks,optional"`
	Flop    []string           `hcl:"flop,optional"`
	Turn    string             `hcl:"turn,optional"`
	River   string             `hcl:"river,optional"`
	Streets []StreetBlock      `hcl:"street,block"`
}

// StreetBlock lists the actions of one street in order.
type StreetBlock struct {
	Name    string        `hcl:"name,label"`
	Actions []ActionBlock `hcl:"action,block"`
}

// ActionBlock is one action, labelled with the acting position.
type ActionBlock struct {
	Position string  `hcl:"position,label"`
	Type     string  `hcl:"type"`
	Amount   float64 `hcl:"amount,optional"`
}

// Load reads and decodes a scenario file.
func Load(filename string) (*File, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(src, filename)
}

// Parse decodes scenario source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var f File
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if len(f.Hand) > 2 {
		return nil, fmt.Errorf("hand: want at most 2 cards, got %d", len(f.Hand))
	}
	if len(f.Flop) > 3 {
		return nil, fmt.Errorf("flop: want at most 3 cards, got %d", len(f.Flop))
	}
	return &f, nil
}

// Intents returns the edits the file describes, in wizard order: table
// setup, hole cards, board cards, then every action on its street.
func (f *File) Intents() []session.Intent {
	var intents []session.Intent

	if f.Players != 0 {
		intents = append(intents, session.Intent{Type: session.SetPlayerCount, Delta: f.Players - hand.DefaultPlayers})
	}
	if f.Hero != "" {
		intents = append(intents, session.Intent{Type: session.SetHeroPosition, Position: f.Hero})
	}

	positions := make([]string, 0, len(f.Stacks))
	for p := range f.Stacks {
		positions = append(positions, p)
	}
	sort.Strings(positions)
	for _, p := range positions {
		intents = append(intents, session.Intent{Type: session.SetStack, Position: p, Stack: f.Stacks[p]})
	}

	for i, c := range f.Hand {
		intents = append(intents, setCard(hand.HeroSlot(i), c))
	}
	for i, c := range f.Flop {
		intents = append(intents, setCard(hand.FlopSlot(i), c))
	}
	if f.Turn != "" {
		intents = append(intents, setCard(hand.TurnSlot(), f.Turn))
	}
	if f.River != "" {
		intents = append(intents, setCard(hand.RiverSlot(), f.River))
	}

	for _, street := range f.Streets {
		for _, a := range street.Actions {
			intents = append(intents, session.Intent{
				Type:     session.AddAction,
				Street:   street.Name,
				Position: a.Position,
				Action:   a.Type,
				Amount:   a.Amount,
			})
		}
	}
	return intents
}

func setCard(slot hand.Slot, card string) session.Intent {
	return session.Intent{Type: session.SetCard, Slot: slot.String(), Card: card}
}

// Replay applies the file to sess and then walks the wizard forward as far
// as the entered cards allow. It stops at the first rejected edit.
func Replay(sess *session.Session, f *File) error {
	for i, in := range f.Intents() {
		if _, err := sess.Apply(in); err != nil {
			return fmt.Errorf("edit %d (%s): %w", i+1, in, err)
		}
	}

	for sess.Step() != wizard.Review {
		_, err := sess.Apply(session.Intent{Type: session.Next})
		if errors.Is(err, wizard.ErrGuard) {
			break
		}
		if err != nil {
			return err
		}
	}
	return nil
}
