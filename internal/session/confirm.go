package session

import (
	"fmt"

	"github.com/auctiondesk/auction-engine/internal/model"
)

// Confirmer asks the operator to approve a mutation. Nothing is changed
// unless Confirm returns true.
type Confirmer interface {
	Confirm(title, message string) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(title, message string) bool

func (f ConfirmFunc) Confirm(title, message string) bool { return f(title, message) }

// Prompt is the question put to the operator before a mutation.
type Prompt struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Ask puts p to c.
func (p Prompt) Ask(c Confirmer) bool {
	return c != nil && c.Confirm(p.Title, p.Message)
}

func SalePrompt(player model.Player, team model.Team, price int64) Prompt {
	return Prompt{
		Title:   "Confirm Sale",
		Message: fmt.Sprintf("Sell %s to %s for ₹%s?", player.Name, team.Name, Rupees(price)),
	}
}

func SkipPrompt(player model.Player) Prompt {
	return Prompt{
		Title:   "Skip Player?",
		Message: fmt.Sprintf("Pass on %s for now? They will be moved to the end of the list.", player.Name),
	}
}

func UndoPrompt() Prompt {
	return Prompt{Title: "Undo Last Sale?", Message: "Undo the last sale?"}
}

func ResetPrompt() Prompt {
	return Prompt{
		Title:   "Reset Auction?",
		Message: "This will unsold all players and reset all teams. Are you sure?",
	}
}

func DeletePrompt(kind, name string) Prompt {
	return Prompt{
		Title:   fmt.Sprintf("Delete %s?", kind),
		Message: fmt.Sprintf("Delete %s? This cannot be undone.", name),
	}
}

// Rupees formats an amount with Indian digit grouping: 1234567 → 12,34,567.
func Rupees(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	s := fmt.Sprint(amount)
	if len(s) <= 3 {
		return sign + s
	}
	head, tail := s[:len(s)-3], s[len(s)-3:]
	out := ""
	for len(head) > 2 {
		out = "," + head[len(head)-2:] + out
		head = head[:len(head)-2]
	}
	return sign + head + out + "," + tail
}
