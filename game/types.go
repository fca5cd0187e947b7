package game

import "fmt"

// Status はマスの見た目の状態
type Status int

const (
	Untouched Status = iota
	Dug
	Flagged
	Detonated
)

func (s Status) String() string {
	switch s {
	case Untouched:
		return "untouched"
	case Dug:
		return "dug"
	case Flagged:
		return "flagged"
	case Detonated:
		return "detonated"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Action はプレイヤーがマスに対してできる操作
type Action int

const (
	Dig Action = iota
	Flag
)

func (a Action) String() string {
	switch a {
	case Dig:
		return "dig"
	case Flag:
		return "flag"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction は "dig"（"open"）と "flag" を Action に変換します
func ParseAction(s string) (Action, error) {
	switch s {
	case "dig", "open":
		return Dig, nil
	case "flag":
		return Flag, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Outcome はゲームの結果
type Outcome int

const (
	InProgress Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}
