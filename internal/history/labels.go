package history

import "github.com/lox/handcoach/internal/hand"

// Labels holds every literal that appears in a rendered document. The
// *Format fields take the street name from Streets.
type Labels struct {
	// Locale is the language code the labels are written in.
	Locale string

	Preconditions string
	HeroHand      string
	HeroPosition  string
	PlayerCount   string
	Stacks        string
	CurrentPot    string
	HeroTag       string

	Streets       [4]string
	ActionsFormat string
	BoardFormat   string
	PotAtFormat   string

	// Question replaces "?" in action lines. Actions maps the remaining
	// actions to display names; missing entries print the action as is.
	Question string
	Actions  map[hand.ActionType]string
}

// Japanese is the document format the analysis prompts are written against.
var Japanese = Labels{
	Locale:        "ja",
	Preconditions: "前提条件",
	HeroHand:      "Hero のハンド",
	HeroPosition:  "Hero のポジション",
	PlayerCount:   "プレイヤー数",
	Stacks:        "プレイヤーのスタック",
	CurrentPot:    "現在のポットサイズ",
	HeroTag:       "(Hero)",
	Streets:       [4]string{"プリフロップ", "フロップ", "ターン", "リバー"},
	ActionsFormat: "%sのアクション",
	BoardFormat:   "%sのボードカード",
	PotAtFormat:   "%s時点のポットサイズ",
	Question:      "分析を求める",
}

// English renders the same document with English labels.
var English = Labels{
	Locale:        "en",
	Preconditions: "Setup",
	HeroHand:      "Hero hand",
	HeroPosition:  "Hero position",
	PlayerCount:   "Players",
	Stacks:        "Stacks",
	CurrentPot:    "Current pot",
	HeroTag:       "(Hero)",
	Streets:       [4]string{"Preflop", "Flop", "Turn", "River"},
	ActionsFormat: "%s actions",
	BoardFormat:   "%s board",
	PotAtFormat:   "Pot at %s",
	Question:      "requesting analysis",
}

// ForLocale returns the labels for a locale code, falling back to Japanese.
func ForLocale(locale string) Labels {
	switch locale {
	case "en", "english":
		return English
	default:
		return Japanese
	}
}

func (l Labels) street(s hand.Street) string {
	if !s.Valid() {
		return s.String()
	}
	return l.Streets[s]
}

func (l Labels) action(a hand.ActionType) string {
	if a == hand.Question {
		return l.Question
	}
	if name, ok := l.Actions[a]; ok {
		return name
	}
	return string(a)
}
