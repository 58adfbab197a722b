// Package mana implements the mana arithmetic used by costs, pools and
// mana-producing effects.
package mana

import (
	"fmt"
	"strings"
)

// Color represents a type of mana.
type Color string

const (
	White     Color = "WHITE"
	Blue      Color = "BLUE"
	Black     Color = "BLACK"
	Red       Color = "RED"
	Green     Color = "GREEN"
	Colorless Color = "COLORLESS"
	// Any is the wildcard component of effects like "add one mana of any
	// color". It never appears in a player's pool, only in requirements.
	Any Color = "ANY"
)

// Colors lists the concrete colors in the canonical WUBRG order used for
// greedy surplus payment.
var Colors = []Color{White, Blue, Black, Red, Green}

var colorCodes = map[rune]Color{
	'W': White,
	'U': Blue,
	'B': Black,
	'R': Red,
	'G': Green,
	'C': Colorless,
	'*': Any,
}

// Mana is an amount of mana broken down by color. The zero value is an
// empty amount. Mana doubles as a cost requirement, a pool content and a
// produced amount.
type Mana struct {
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
	Any       int
}

// Parse reads a compact mana string such as "2RG", "UU" or "*".
// A leading number is generic (colorless) mana; letters follow the
// standard WUBRGC codes; '*' adds a wildcard component.
func Parse(s string) (Mana, error) {
	var m Mana
	digits := 0
	seenSymbol := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			if seenSymbol {
				return Mana{}, fmt.Errorf("mana: generic amount must lead in %q", s)
			}
			digits = digits*10 + int(r-'0')
			continue
		}
		seenSymbol = true
		color, ok := colorCodes[r]
		if !ok {
			return Mana{}, fmt.Errorf("mana: unknown symbol %q in %q", r, s)
		}
		m.add(color, 1)
	}
	m.Colorless += digits
	return m, nil
}

// MustParse is Parse for statically known strings; it panics on error.
func MustParse(s string) Mana {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Mana) add(color Color, amount int) {
	switch color {
	case White:
		m.White += amount
	case Blue:
		m.Blue += amount
	case Black:
		m.Black += amount
	case Red:
		m.Red += amount
	case Green:
		m.Green += amount
	case Colorless:
		m.Colorless += amount
	case Any:
		m.Any += amount
	}
}

// Get returns the amount of the given color.
func (m Mana) Get(color Color) int {
	switch color {
	case White:
		return m.White
	case Blue:
		return m.Blue
	case Black:
		return m.Black
	case Red:
		return m.Red
	case Green:
		return m.Green
	case Colorless:
		return m.Colorless
	case Any:
		return m.Any
	default:
		return 0
	}
}

// Set overwrites the amount of the given color.
func (m *Mana) Set(color Color, amount int) {
	m.add(color, amount-m.Get(color))
}

// Has reports whether the amount contains at least one mana of the color.
func (m Mana) Has(color Color) bool {
	return m.Get(color) > 0
}

// Total returns the total number of mana across all components.
func (m Mana) Total() int {
	return m.White + m.Blue + m.Black + m.Red + m.Green + m.Colorless + m.Any
}

// IsEmpty reports whether the amount holds no mana at all.
func (m Mana) IsEmpty() bool {
	return m.Total() == 0
}

// Add returns the sum of two amounts.
func (m Mana) Add(other Mana) Mana {
	m.White += other.White
	m.Blue += other.Blue
	m.Black += other.Black
	m.Red += other.Red
	m.Green += other.Green
	m.Colorless += other.Colorless
	m.Any += other.Any
	return m
}

// Subtract removes other from m, flooring every component at zero.
func (m Mana) Subtract(other Mana) Mana {
	m.White = max(0, m.White-other.White)
	m.Blue = max(0, m.Blue-other.Blue)
	m.Black = max(0, m.Black-other.Black)
	m.Red = max(0, m.Red-other.Red)
	m.Green = max(0, m.Green-other.Green)
	m.Colorless = max(0, m.Colorless-other.Colorless)
	m.Any = max(0, m.Any-other.Any)
	return m
}

// Contains reports whether m holds at least as much of every component as
// other. Used when deducting a chosen payment from a pool.
func (m Mana) Contains(other Mana) bool {
	return m.White >= other.White &&
		m.Blue >= other.Blue &&
		m.Black >= other.Black &&
		m.Red >= other.Red &&
		m.Green >= other.Green &&
		m.Colorless >= other.Colorless &&
		m.Any >= other.Any
}

// Enough reports whether m can pay the given cost. Colored requirements
// must be paid in kind; colorless mana never substitutes for a colored
// requirement. Generic (Colorless) and wildcard (Any) requirements are
// paid from whatever surplus remains, greedily.
func (m Mana) Enough(cost Mana) bool {
	surplus := 0
	for _, color := range Colors {
		have, need := m.Get(color), cost.Get(color)
		if have < need {
			return false
		}
		surplus += have - need
	}
	surplus += m.Colorless
	return surplus >= cost.Colorless+cost.Any
}

// Clear empties the amount. Pools are cleared between steps.
func (m *Mana) Clear() {
	*m = Mana{}
}

// String renders the amount back into compact cost notation.
func (m Mana) String() string {
	var b strings.Builder
	if m.Colorless > 0 {
		fmt.Fprintf(&b, "%d", m.Colorless)
	}
	for _, part := range []struct {
		code  string
		count int
	}{
		{"W", m.White},
		{"U", m.Blue},
		{"B", m.Black},
		{"R", m.Red},
		{"G", m.Green},
		{"*", m.Any},
	} {
		b.WriteString(strings.Repeat(part.code, part.count))
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
