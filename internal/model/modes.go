package model

type GameMode string

const (
	ModeClassic      GameMode = "classic"
	ModeCorpse       GameMode = "cadavre-exquis"
	ModeCombo        GameMode = "combo-chain"
	ModePixelPerfect GameMode = "pixel-perfect"
	ModeMorph        GameMode = "morph-mode"
	ModeBattleRoyale GameMode = "battle-royale"
)

// ModeConfig is the static per-mode tuning table
type ModeConfig struct {
	Mode             GameMode `json:"mode"`
	Name             string   `json:"name"`
	MinPlayers       int      `json:"minPlayers"`
	MaxPlayers       int      `json:"maxPlayers"`
	DefaultRoundTime int      `json:"defaultRoundTime"` // seconds
	RoundTimeOptions []int    `json:"roundTimeOptions"`
	SupportsVoting   bool     `json:"supportsVoting"`
}

var modeConfigs = map[GameMode]ModeConfig{
	ModeClassic: {
		Mode: ModeClassic, Name: "Classic",
		MinPlayers: 3, MaxPlayers: 12,
		DefaultRoundTime: 60, RoundTimeOptions: []int{30, 45, 60, 90, 120},
		SupportsVoting: true,
	},
	ModeCorpse: {
		Mode: ModeCorpse, Name: "Cadavre Exquis",
		MinPlayers: 3, MaxPlayers: 12,
		DefaultRoundTime: 45, RoundTimeOptions: []int{30, 45, 60},
		SupportsVoting: true,
	},
	ModeCombo: {
		Mode: ModeCombo, Name: "Combo Chain",
		MinPlayers: 2, MaxPlayers: 8,
		DefaultRoundTime: 90, RoundTimeOptions: []int{60, 90, 120},
		SupportsVoting: false,
	},
	ModePixelPerfect: {
		Mode: ModePixelPerfect, Name: "Pixel Perfect",
		MinPlayers: 2, MaxPlayers: 12,
		DefaultRoundTime: 60, RoundTimeOptions: []int{45, 60, 90},
		SupportsVoting: false,
	},
	ModeMorph: {
		Mode: ModeMorph, Name: "Morph Mode",
		MinPlayers: 4, MaxPlayers: 8,
		DefaultRoundTime: 60, RoundTimeOptions: []int{45, 60, 90},
		SupportsVoting: true,
	},
	ModeBattleRoyale: {
		Mode: ModeBattleRoyale, Name: "Battle Royale",
		MinPlayers: 6, MaxPlayers: 12,
		DefaultRoundTime: 45, RoundTimeOptions: []int{30, 45, 60},
		SupportsVoting: true,
	},
}

// ConfigFor returns the tuning table entry for a mode, or false if the mode
// is unknown
func ConfigFor(mode GameMode) (ModeConfig, bool) {
	c, ok := modeConfigs[mode]
	return c, ok
}

// ValidMode reports whether mode names a known game mode
func ValidMode(mode GameMode) bool {
	_, ok := modeConfigs[mode]
	return ok
}
