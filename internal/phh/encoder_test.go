package phh_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lox/handcoach/internal/deck"
	"github.com/lox/handcoach/internal/hand"
	"github.com/lox/handcoach/internal/phh"
)

func TestNormalizeCard(t *testing.T) {
	tests := []struct {
		in   deck.Card
		want string
	}{
		{deck.MustParseCard("10h"), "Th"},
		{deck.MustParseCard("ah"), "Ah"},
		{deck.MustParseCard("As"), "As"},
		{deck.Card{Rank: deck.Ace}, "??"},
		{deck.Card{}, "??"},
	}

	for _, tt := range tests {
		if got := phh.NormalizeCard(tt.in); got != tt.want {
			t.Fatalf("NormalizeCard(%v)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAction(t *testing.T) {
	tests := []struct {
		name  string
		seat  int
		entry hand.ActionEntry
		want  string
	}{
		{"fold", 0, hand.ActionEntry{Action: hand.Fold}, "p1 f"},
		{"check", 1, hand.ActionEntry{Action: hand.Check}, "p2 cc"},
		{"call", 3, hand.ActionEntry{Action: hand.Call, Amount: 2}, "p4 cc"},
		{"raise", 0, hand.ActionEntry{Action: hand.Raise, Amount: 3}, "p1 cbr 3"},
		{"bet", 1, hand.ActionEntry{Action: hand.Bet, Amount: 2.5}, "p2 cbr 2.5"},
		{"allin", 0, hand.ActionEntry{Action: hand.AllIn, Amount: 97.5}, "p1 cbr 97.5"},
		{"sizeless allin", 4, hand.ActionEntry{Action: hand.AllIn}, "# p5 all-in"},
		{"question", 2, hand.ActionEntry{Action: hand.Question}, "# p3 ?"},
	}

	for _, tt := range tests {
		if got := phh.FormatAction(tt.seat, tt.entry); got != tt.want {
			t.Fatalf("%s: got %q want %q", tt.name, got, tt.want)
		}
	}
}

func TestSeatOrder(t *testing.T) {
	got := phh.SeatOrder(6)
	want := []hand.Position{hand.SB, hand.BB, hand.UTG, hand.MP, hand.CO, hand.BTN}
	if len(got) != len(want) {
		t.Fatalf("SeatOrder(6) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SeatOrder(6) = %v, want %v", got, want)
		}
	}
	if hu := phh.SeatOrder(2); hu[0] != hand.SB || hu[1] != hand.BB {
		t.Fatalf("SeatOrder(2) = %v", hu)
	}
}

func exampleState(t *testing.T) hand.State {
	t.Helper()
	s := hand.NewState()
	var err error
	for slot, card := range map[hand.Slot]string{
		hand.HeroSlot(0): "As", hand.HeroSlot(1): "Ks",
		hand.FlopSlot(0): "Ah", hand.FlopSlot(1): "7d", hand.FlopSlot(2): "2c",
	} {
		if s, err = s.SetCard(slot, deck.MustParseCard(card)); err != nil {
			t.Fatal(err)
		}
	}
	if s, err = s.SetStack(hand.BTN, 80); err != nil {
		t.Fatal(err)
	}
	for _, a := range []struct {
		street hand.Street
		entry  hand.ActionEntry
	}{
		{hand.Preflop, hand.ActionEntry{Position: hand.UTG, Action: hand.Fold}},
		{hand.Preflop, hand.ActionEntry{Position: hand.CO, Action: hand.Raise, Amount: 3}},
		{hand.Preflop, hand.ActionEntry{Position: hand.BB, Action: hand.Call, Amount: 2}},
		{hand.Flop, hand.ActionEntry{Position: hand.BB, Action: hand.Check}},
		{hand.Flop, hand.ActionEntry{Position: hand.CO, Action: hand.Question}},
	} {
		if s, _, err = s.AddAction(a.street, a.entry); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestFromState(t *testing.T) {
	h := phh.FromState(exampleState(t), "hand-1")

	wantActions := []string{
		"d dh p1 ????",
		"d dh p2 ????",
		"d dh p3 ????",
		"d dh p4 ????",
		"d dh p5 AsKs",
		"d dh p6 ????",
		"p3 f",
		"p5 cbr 3",
		"p2 cc",
		"d db Ah7d2c",
		"p2 cc",
		"# p5 ?",
	}
	if strings.Join(h.Actions, "|") != strings.Join(wantActions, "|") {
		t.Fatalf("actions mismatch\ngot:  %q\nwant: %q", h.Actions, wantActions)
	}
	if h.StartingStacks[5] != 80 || h.StartingStacks[0] != 100 {
		t.Fatalf("starting stacks = %v", h.StartingStacks)
	}
	if h.BlindsOrStraddles[0] != 0.5 || h.BlindsOrStraddles[1] != 1 || h.Antes[1] != 1 {
		t.Fatalf("blinds %v antes %v", h.BlindsOrStraddles, h.Antes)
	}
	if h.Metadata["hero"] != "CO" || h.Metadata["hero_seat"] != 5 {
		t.Fatalf("metadata = %v", h.Metadata)
	}
	if len(h.Board) != 1 || h.Board[0] != "Ah7d2c" {
		t.Fatalf("board = %v", h.Board)
	}
}

func TestFromStateActionFromRemovedSeat(t *testing.T) {
	s := hand.NewState()
	var err error
	s, _, err = s.AddAction(hand.Preflop, hand.ActionEntry{Position: hand.UTG, Action: hand.Raise, Amount: 3})
	if err != nil {
		t.Fatal(err)
	}
	s, _, err = s.AddAction(hand.Preflop, hand.ActionEntry{Position: hand.BB, Action: hand.Call, Amount: 2})
	if err != nil {
		t.Fatal(err)
	}
	// 3 players: SB BB BTN, UTG no longer exists
	s = s.SetPlayerCount(-3)

	h := phh.FromState(s, "hand-2")

	wantActions := []string{
		"d dh p1 ????",
		"d dh p2 ????",
		"d dh p3 ????",
		"# UTG raise 3",
		"p2 cc",
	}
	if strings.Join(h.Actions, "|") != strings.Join(wantActions, "|") {
		t.Fatalf("actions mismatch\ngot:  %q\nwant: %q", h.Actions, wantActions)
	}
	for _, a := range h.Actions {
		if strings.HasPrefix(a, "p1 ") {
			t.Fatalf("action credited to p1: %q", a)
		}
	}
}

func TestEncodeHandHistory(t *testing.T) {
	h := &phh.HandHistory{
		Variant:           "NT",
		SeatCount:         2,
		Antes:             []float64{0, 1},
		BlindsOrStraddles: []float64{0.5, 1},
		MinBet:            1,
		StartingStacks:    []float64{100, 55.5},
		Actions: []string{
			"d dh p1 AhKh",
			"d dh p2 ????",
			"p1 cbr 3",
			"# p2 ?",
		},
		Players: []string{"SB", "BB"},
		HandID:  "hand-00042",
	}
	h.SetTime(time.Date(2025, time.November, 14, 15, 22, 0, 0, time.UTC))

	var buf bytes.Buffer
	if err := phh.Encode(&buf, h); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	got := buf.String()
	want := "" +
		"variant = \"NT\"\n" +
		"seat_count = 2\n" +
		"antes = [0.0, 1.0]\n" +
		"blinds_or_straddles = [0.5, 1.0]\n" +
		"min_bet = 1.0\n" +
		"starting_stacks = [100.0, 55.5]\n" +
		"actions = [\"d dh p1 AhKh\", \"d dh p2 ????\", \"p1 cbr 3\", \"# p2 ?\"]\n" +
		"players = [\"SB\", \"BB\"]\n" +
		"hand = \"hand-00042\"\n" +
		"time = \"15:22:00\"\n" +
		"time_zone = \"UTC\"\n" +
		"day = 14\n" +
		"month = 11\n" +
		"year = 2025\n"

	if got != want {
		t.Fatalf("Encode output mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}

	if _, err := phh.EncodeToBytes(nil); err == nil {
		t.Fatal("EncodeToBytes(nil) should fail")
	}
}
