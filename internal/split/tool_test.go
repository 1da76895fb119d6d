package split

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

const toolDump = `Session data: From 2024-01-15, 20:00:00 to 2024-01-15, 22:30:00
Session: 02:30h
Loot Type: Market
Ember (Leader)
Loot: 400
Supplies: 100
Balance: 300
Damage: 120
Healing: 40
Thorn
Loot: 100
Supplies: 200
Balance: -100`

func TestExecuteSuccess(t *testing.T) {
	res := NewTool().Execute(toolDump)

	if !res.Success {
		t.Fatalf("Execute failed: %s", res.Error)
	}
	if !reflect.DeepEqual(res.PlayersParsed, []string{"Ember", "Thorn"}) {
		t.Errorf("players_parsed = %v", res.PlayersParsed)
	}

	// loot 500, supplies 300, net 200, fair share 100.
	if res.Summary.TotalLoot != 500 || res.Summary.TotalSupplies != 300 || res.Summary.NetProfit != 200 {
		t.Errorf("unexpected summary: %+v", res.Summary)
	}
	if res.Summary.LootType != "Market" {
		t.Errorf("loot type = %q", res.Summary.LootType)
	}
	if !strings.Contains(res.Summary.SessionInfo, "Session: 02:30h") {
		t.Errorf("session info missing header line: %q", res.Summary.SessionInfo)
	}

	want := []string{"Ember: transfer 200 to Thorn"}
	if !reflect.DeepEqual(res.Transfers, want) {
		t.Errorf("transfers = %v, want %v", res.Transfers, want)
	}

	wantDH := []DamageHealing{
		{Player: "Ember", Damage: 120, Healing: 40},
		{Player: "Thorn"},
	}
	if !reflect.DeepEqual(res.DamageHealing, wantDH) {
		t.Errorf("damage_healing = %v, want %v", res.DamageHealing, wantDH)
	}
}

func TestExecuteEmptyInput(t *testing.T) {
	res := NewTool().Execute("")

	if res.Success {
		t.Fatal("empty input reported success")
	}
	if res.Error == "" {
		t.Error("missing error message")
	}
	if len(res.Transfers) != 0 || len(res.PlayersParsed) != 0 {
		t.Errorf("expected empty transfers and players, got %v / %v", res.Transfers, res.PlayersParsed)
	}
}

func TestExecuteIdempotent(t *testing.T) {
	tool := NewTool()
	if !reflect.DeepEqual(tool.Execute(toolDump), tool.Execute(toolDump)) {
		t.Error("Execute not deterministic for identical input")
	}
}

func TestExecuteMalformedFieldDoesNotAbort(t *testing.T) {
	res := NewTool().Execute("Vexa\nLoot: abc\nBalance: 10\nNyx\nBalance: -10")

	if !res.Success {
		t.Fatalf("malformed field aborted the parse: %s", res.Error)
	}
	if res.Summary.TotalLoot != 0 {
		t.Errorf("malformed loot leaked into totals: %d", res.Summary.TotalLoot)
	}
}

func TestResultJSONShape(t *testing.T) {
	b, err := json.Marshal(NewTool().Execute(toolDump))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"success", "transfers", "damage_healing_data", "session_summary", "players_parsed"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("result JSON missing %q", key)
		}
	}
	if _, ok := decoded["error"]; ok {
		t.Error("successful result should omit error")
	}

	summary := decoded["session_summary"].(map[string]any)
	for _, key := range []string{"total_loot", "total_supplies", "net_profit", "loot_type", "session_info"} {
		if _, ok := summary[key]; !ok {
			t.Errorf("session_summary missing %q", key)
		}
	}
}
