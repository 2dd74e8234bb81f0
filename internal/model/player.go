package model

import "strings"

type PlayerColor string

const (
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

// Opponent returns the other side.
func (c PlayerColor) Opponent() PlayerColor {
	if c == PlayerColorWhite {
		return PlayerColorBlack
	}
	return PlayerColorWhite
}

func (c PlayerColor) Label() string {
	if c == PlayerColorWhite {
		return "White"
	}
	return "Black"
}

// OpponentPolicy decides who plays Black: a human at the same board or one of
// the computer opponents.
type OpponentPolicy string

const (
	PolicyHuman  OpponentPolicy = "human"
	PolicyRandom OpponentPolicy = "random"
	PolicyGreedy OpponentPolicy = "greedy"
)

// ComputerColor is the side played by the computer when the policy is not
// PolicyHuman.
const ComputerColor = PlayerColorBlack

// policyAliases maps the long mode names shown in the mode picker.
var policyAliases = map[OpponentPolicy]OpponentPolicy{
	"randomai":        PolicyRandom,
	"capturegreedyai": PolicyGreedy,
}

func (p OpponentPolicy) valid() bool {
	switch p {
	case PolicyHuman, PolicyRandom, PolicyGreedy:
		return true
	}
	return false
}

type Players struct {
	White string `json:"white"`
	Black string `json:"black"`
}

func (p Players) Name(c PlayerColor) string {
	if c == PlayerColorWhite {
		return p.White
	}
	return p.Black
}

// Config is what a client sends when starting or resetting a game. Every
// field is optional.
type Config struct {
	Mode      OpponentPolicy `json:"mode"`
	WhiteName string         `json:"whiteName"`
	BlackName string         `json:"blackName"`
}

// Normalize fills in defaults. Unknown modes fall back to PolicyHuman and
// blank names fall back to the colour name, or "Computer" for a computer
// controlled Black.
func (c Config) Normalize() Config {
	c.Mode = OpponentPolicy(strings.ToLower(strings.TrimSpace(string(c.Mode))))
	if alias, ok := policyAliases[c.Mode]; ok {
		c.Mode = alias
	}
	if !c.Mode.valid() {
		c.Mode = PolicyHuman
	}
	c.WhiteName = strings.TrimSpace(c.WhiteName)
	if c.WhiteName == "" {
		c.WhiteName = PlayerColorWhite.Label()
	}
	c.BlackName = strings.TrimSpace(c.BlackName)
	if c.BlackName == "" {
		if c.Mode == PolicyHuman {
			c.BlackName = PlayerColorBlack.Label()
		} else {
			c.BlackName = "Computer"
		}
	}
	return c
}
