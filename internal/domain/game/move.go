package game

// @name Move
// Coordinates is empty for a pass.
type Move struct {
	Color       string `json:"color" bson:"color"`
	Coordinates string `json:"coordinates" bson:"coordinates"`
}

func (m Move) IsPass() bool { return m.Coordinates == "" }

// @name MoveResult
type MoveResult struct {
	Move     Move     `json:"move"`
	Captured []string `json:"captured"`
}

// @name Legality
type Legality struct {
	Legal  bool   `json:"legal"`
	Reason string `json:"reason"`
}

// @name LegalMoves
type LegalMoves struct {
	Color       string   `json:"color"`
	Coordinates []string `json:"coordinates"`
}

// @name PassRequest
type PassRequest struct {
	Color string `json:"color"`
}

// @name NewGameRequest
// Zero values keep the server defaults.
type NewGameRequest struct {
	BoardSize int    `json:"board_size"`
	KoRule    string `json:"ko_rule"`
}
