package split

import (
	"fmt"
	"log"

	"github.com/ekzore/tibia-agent/internal/session"
)

// SessionSummary aggregates the session for the caller-visible result.
type SessionSummary struct {
	TotalLoot     int64  `json:"total_loot"`
	TotalSupplies int64  `json:"total_supplies"`
	NetProfit     int64  `json:"net_profit"`
	LootType      string `json:"loot_type"`
	SessionInfo   string `json:"session_info"`
}

// Result is the complete outcome of one parse-and-settle call, in the shape
// the HTTP API, the bot and the agent loop all forward as-is.
type Result struct {
	Success       bool            `json:"success"`
	Transfers     []string        `json:"transfers"`
	DamageHealing []DamageHealing `json:"damage_healing_data,omitempty"`
	Summary       *SessionSummary `json:"session_summary,omitempty"`
	PlayersParsed []string        `json:"players_parsed"`
	Error         string          `json:"error,omitempty"`
	// Message echoes the original input when an unexpected failure occurred,
	// so the dump that broke the parser is not lost.
	Message string `json:"message,omitempty"`
}

// Tool bundles the parser and the settlement engine behind one call. Each
// Execute is a pure function of its input; a Tool is safe for concurrent use.
type Tool struct {
	Parser *session.Parser
}

func NewTool() *Tool {
	return &Tool{Parser: session.New()}
}

// Execute parses sessionData, settles the party and assembles the result
// object. It never panics past this boundary: unexpected failures come back
// as a well-formed Result with Success false.
func (t *Tool) Execute(sessionData string) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("split: recovered while processing session data: %v", r)
			res = &Result{
				Success:       false,
				Transfers:     []string{},
				PlayersParsed: []string{},
				Error:         fmt.Sprintf("failed to process loot split: %v", r),
				Message:       sessionData,
			}
		}
	}()

	parsed := t.Parser.Parse(sessionData)
	if len(parsed.Players) == 0 {
		return &Result{
			Success:       false,
			Transfers:     []string{},
			PlayersParsed: []string{},
			Error:         "no player data found in the session data",
		}
	}

	transfers := Settle(parsed.Players)
	lines := make([]string, 0, len(transfers))
	for _, tr := range transfers {
		lines = append(lines, tr.String())
	}

	loot, supplies := Totals(parsed.Players)
	return &Result{
		Success:       true,
		Transfers:     lines,
		DamageHealing: DamageHealingRows(parsed.Players),
		Summary: &SessionSummary{
			TotalLoot:     loot,
			TotalSupplies: supplies,
			NetProfit:     loot - supplies,
			LootType:      parsed.Meta.LootType,
			SessionInfo:   parsed.Meta.Info(),
		},
		PlayersParsed: parsed.Names(),
	}
}
