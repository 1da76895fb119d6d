// Package split settles a parsed hunt session: everyone ends up with an equal
// share of the party's net profit or loss, expressed as a minimal-ish list of
// pairwise transfers.
package split

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ekzore/tibia-agent/internal/session"
)

// Transfer is one settlement instruction.
type Transfer struct {
	From   string
	Amount int64
	To     string
}

// String renders the canonical instruction format consumed by callers.
func (t Transfer) String() string {
	return fmt.Sprintf("%s: transfer %d to %s", t.From, t.Amount, t.To)
}

// Totals sums loot and supplies over all players.
func Totals(players []*session.Player) (loot, supplies int64) {
	for _, p := range players {
		loot += p.Loot
		supplies += p.Supplies
	}
	return loot, supplies
}

type due struct {
	name   string
	amount decimal.Decimal
}

// Settle computes the transfers that bring every player to the fair share of
// the session's net profit. The fair share stays exact (decimal) until the
// final transfer amount, which is truncated to whole gold; matching is greedy
// largest payer against largest receiver, with stable ordering so players
// owing equal amounts settle in first-seen order. Greedy matching does not
// always produce the theoretical minimum number of transfers, but it is
// deterministic and close enough in practice.
func Settle(players []*session.Player) []Transfer {
	if len(players) == 0 {
		return nil
	}

	loot, supplies := Totals(players)
	fairShare := decimal.NewFromInt(loot - supplies).Div(decimal.NewFromInt(int64(len(players))))

	var payers, receivers []due
	for _, p := range players {
		delta := fairShare.Sub(decimal.NewFromInt(p.Balance))
		switch {
		case delta.IsPositive():
			receivers = append(receivers, due{name: p.Name, amount: delta})
		case delta.IsNegative():
			payers = append(payers, due{name: p.Name, amount: delta.Neg()})
		}
	}
	sort.SliceStable(payers, func(i, j int) bool { return payers[i].amount.GreaterThan(payers[j].amount) })
	sort.SliceStable(receivers, func(i, j int) bool { return receivers[i].amount.GreaterThan(receivers[j].amount) })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(payers) && j < len(receivers) {
		matched := decimal.Min(payers[i].amount, receivers[j].amount)
		if n := matched.IntPart(); n > 0 {
			transfers = append(transfers, Transfer{From: payers[i].name, Amount: n, To: receivers[j].name})
		}
		payers[i].amount = payers[i].amount.Sub(matched)
		receivers[j].amount = receivers[j].amount.Sub(matched)
		if !payers[i].amount.IsPositive() {
			i++
		}
		if !receivers[j].amount.IsPositive() {
			j++
		}
	}
	return transfers
}

// DamageHealing is the per-player combat projection reported next to the
// settlement.
type DamageHealing struct {
	Player  string `json:"player"`
	Damage  int64  `json:"damage"`
	Healing int64  `json:"healing"`
}

// DamageHealingRows projects damage and healing for every player in
// first-seen order.
func DamageHealingRows(players []*session.Player) []DamageHealing {
	rows := make([]DamageHealing, 0, len(players))
	for _, p := range players {
		rows = append(rows, DamageHealing{Player: p.Name, Damage: p.Damage, Healing: p.Healing})
	}
	return rows
}
