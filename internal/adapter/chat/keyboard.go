package chat

import (
	"strings"

	"github.com/samber/lo"
)

// Special keyboard labels.
const (
	LabelStart  = "Start the game ▶️"
	LabelAdd    = "Add word ➕"
	LabelDelete = "Delete word 🔙"
	LabelRating = "Rating 🏆"
	LabelBack   = "Back ↩️"

	CommandStart = "/start"
)

const keyboardWidth = 2

// ChoiceKeyboard lays out the answer choices in random order followed by the
// add, delete and rating labels, two buttons per row.
func ChoiceKeyboard(choices []string) [][]string {
	buttons := lo.Shuffle(append([]string(nil), choices...))
	buttons = append(buttons, LabelAdd, LabelDelete, LabelRating)
	return lo.Chunk(buttons, keyboardWidth)
}

// StartKeyboard holds the single start button.
func StartKeyboard() [][]string {
	return [][]string{{LabelStart}}
}

// BackKeyboard holds the single back button.
func BackKeyboard() [][]string {
	return [][]string{{LabelBack}}
}

func isStart(text string) bool {
	t := strings.TrimSpace(text)
	return t == LabelStart || strings.EqualFold(t, CommandStart)
}

func isBack(text string) bool {
	t := strings.TrimSpace(text)
	return t == LabelBack || strings.EqualFold(t, "back")
}
