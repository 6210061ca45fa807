package model

// Content payloads are opaque to storage (Submission.Content is raw JSON) but
// typed here so the engine can build placeholders and score pixel grids.

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Tool   string  `json:"tool"` // "pen" or "eraser"
}

type PromptContent struct {
	Text string `json:"text"`
}

type DrawingContent struct {
	Strokes []Stroke `json:"strokes"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
}

type DescriptionContent struct {
	Text string `json:"text"`
}

// CorpsePart is the creature band a cadavre-exquis round covers
type CorpsePart string

const (
	PartHead CorpsePart = "head"
	PartBody CorpsePart = "body"
	PartLegs CorpsePart = "legs"
)

// JunctionLines mark the narrow shared bands visible from adjacent parts
type JunctionLines struct {
	Top    *float64 `json:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
}

type CorpseContent struct {
	Part      CorpsePart    `json:"part"`
	Strokes   []Stroke      `json:"strokes"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Junctions JunctionLines `json:"junctionLines"`
}

// ComboZone is the exclusive canvas region a combo-chain player may draw in
type ComboZone struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ComboContent struct {
	Strokes []Stroke  `json:"strokes"`
	Zone    ComboZone `json:"zone"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
}

type PixelDifficulty string

const (
	PixelEasy   PixelDifficulty = "easy"
	PixelMedium PixelDifficulty = "medium"
	PixelHard   PixelDifficulty = "hard"
)

// PixelTheme selects the color palette offered to players
type PixelTheme string

const (
	ThemeDefault PixelTheme = "default"
	ThemeRetro   PixelTheme = "retro"
	ThemeGameboy PixelTheme = "gameboy"
)

// PixelGrid maps "x,y" cell keys to palette colors. Absent keys are empty cells.
type PixelGrid map[string]string

type PixelContent struct {
	Target PixelGrid `json:"target"` // grid shown during the memorize phase
	Pixels PixelGrid `json:"pixels"` // the player's reproduction
	Width  int       `json:"gridWidth"`
	Height int       `json:"gridHeight"`
}

type MorphContent struct {
	Strokes  []Stroke `json:"strokes"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Progress int      `json:"morphProgress"` // 0..100 toward the target concept
}
