// Package session extracts per-player statistics from raw Tibia party-hunt
// session dumps. Dumps arrive either newline-delimited (copied straight from
// the client) or flattened to a single line (chat relays strip line breaks);
// in the latter case the parser reconstructs line breaks by keyword position.
// Reconstruction is best effort: adversarial input can still produce spurious
// or missing breaks.
package session

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// DefaultReconstructThreshold is the minimum length a single-line dump must
// have before line reconstruction is attempted.
const DefaultReconstructThreshold = 100

var (
	leaderRe   = regexp.MustCompile(`(?i)\(\s*leader\s*\)`)
	lootTypeRe = regexp.MustCompile(`(?i)loot type:`)
	keywordRe  = regexp.MustCompile(`(?i)(session data:|session:|loot:|supplies:|balance:|damage:|healing:)`)
	// A stat line with a trailing non-numeric tail; the tail is most likely
	// the next player's name.
	trailRe    = regexp.MustCompile(`(?i)^((?:loot|supplies|balance|damage|healing):\s*-?[\d,]+)\s+(\S.*)$`)
	durationRe = regexp.MustCompile(`^\d{2}:\d{2}h`)
	captureRe  = regexp.MustCompile(`(\d{2}:\d{2})h`)
	digitsRe   = regexp.MustCompile(`^\d+$`)
)

// lootTypeMark shields "Loot Type:" from the bare "Loot:" keyword break while
// reconstructing a flattened line.
const lootTypeMark = "\x01loot-type\x01"

// Player holds one party member's numbers. Values that fail integer parsing
// are kept verbatim in Malformed and count as zero everywhere else.
type Player struct {
	Name      string
	Loot      int64
	Supplies  int64
	Balance   int64
	Damage    int64
	Healing   int64
	Malformed map[string]string
}

func (p *Player) setStat(key, value string) {
	clean := strings.ReplaceAll(value, ",", "")
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		log.Printf("session: unparsable %s value %q for player %s", key, value, p.Name)
		if p.Malformed == nil {
			p.Malformed = make(map[string]string)
		}
		p.Malformed[key] = value
		return
	}
	switch key {
	case "loot":
		p.Loot = n
	case "supplies":
		p.Supplies = n
	case "balance":
		p.Balance = n
	case "damage":
		p.Damage = n
	case "healing":
		p.Healing = n
	}
}

// Meta carries the session-level lines that precede the first player block.
type Meta struct {
	Duration    string
	LootType    string
	HeaderLines []string
}

// Info returns the header lines joined back into one block, the form the
// session summary reports.
func (m Meta) Info() string {
	return strings.Join(m.HeaderLines, "\n")
}

// Result is one parsed dump. Players keeps first-seen order; a repeated name
// overwrites the earlier record in place.
type Result struct {
	Players []*Player
	Meta    Meta

	byName map[string]*Player
}

// Lookup returns the record for name, or nil.
func (r *Result) Lookup(name string) *Player {
	return r.byName[name]
}

// Names returns the player names in first-seen order.
func (r *Result) Names() []string {
	names := make([]string, len(r.Players))
	for i, p := range r.Players {
		names[i] = p.Name
	}
	return names
}

func (r *Result) open(name string) *Player {
	if p, ok := r.byName[name]; ok {
		// Duplicate name: last-seen record wins, position stays.
		*p = Player{Name: name}
		return p
	}
	p := &Player{Name: name}
	r.byName[name] = p
	r.Players = append(r.Players, p)
	return p
}

// Parser converts a raw dump into a Result. The zero value is not usable;
// construct with New.
type Parser struct {
	// ReconstructThreshold is the minimum single-line length that triggers
	// line-break reconstruction.
	ReconstructThreshold int
}

func New() *Parser {
	return &Parser{ReconstructThreshold: DefaultReconstructThreshold}
}

// Parse extracts player records and session metadata from text. Recognizing
// zero players is a valid outcome, not an error; callers decide how to report
// an empty Result.
func (p *Parser) Parse(text string) *Result {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) == 1 && len(text) > p.ReconstructThreshold {
		lines = reconstructLines(lines[0])
	}

	res := &Result{byName: make(map[string]*Player)}
	var current *Player
	inHeader := true

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		low := strings.ToLower(line)

		switch {
		case strings.HasPrefix(low, "session data:"),
			strings.HasPrefix(low, "session:"),
			strings.Contains(low, "from 20"),
			durationRe.MatchString(line),
			strings.HasPrefix(low, "loot type:"):
			res.Meta.HeaderLines = append(res.Meta.HeaderLines, line)
			if strings.HasPrefix(low, "loot type:") {
				res.Meta.LootType = strings.TrimSpace(line[len("loot type:"):])
			}
			if res.Meta.Duration == "" {
				if m := captureRe.FindStringSubmatch(line); m != nil {
					res.Meta.Duration = m[1]
				}
			}
			inHeader = true

		case inHeader && current == nil && hasAnyPrefix(low, "loot:", "supplies:", "balance:"):
			// Party-wide totals between the header and the first player
			// block; session-level, not attributable to anyone.
			res.Meta.HeaderLines = append(res.Meta.HeaderLines, line)

		case hasAnyPrefix(low, "loot:", "supplies:", "balance:", "damage:", "healing:"):
			inHeader = false
			if current != nil {
				key, value, _ := strings.Cut(line, ":")
				current.setStat(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value))
			}

		default:
			if strings.Contains(low, "session") || strings.Contains(low, "loot type") {
				continue // stray header fragment
			}
			if inHeader && (digitsRe.MatchString(line) || strings.EqualFold(line, "leader")) {
				continue // loose token from a broken header, not a name
			}
			name := strings.TrimSpace(leaderRe.ReplaceAllString(line, ""))
			if len(name) > 1 {
				inHeader = false
				current = res.open(name)
			}
		}
	}

	return res
}

// reconstructLines rebuilds logical lines from a dump whose line breaks were
// lost in transit. Breaks go in front of every recognized field keyword, and
// a non-numeric tail left on a stat line is split off as the probable next
// player name.
func reconstructLines(text string) []string {
	text = leaderRe.ReplaceAllString(text, "(Leader)")
	text = lootTypeRe.ReplaceAllString(text, lootTypeMark)
	text = keywordRe.ReplaceAllString(text, "\n$1")
	text = strings.ReplaceAll(text, lootTypeMark, "\nLoot Type:")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m := trailRe.FindStringSubmatch(line); m != nil {
			lines = append(lines, strings.TrimSpace(m[1]), strings.TrimSpace(m[2]))
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
