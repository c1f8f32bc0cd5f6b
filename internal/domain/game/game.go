package game

import "time"

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Record is everything needed to rebuild a game: the board size, the ko
// rule, the setup stones and the moves in order.
type Record struct {
	ID        string     `json:"id" bson:"_id"`
	BoardSize int        `json:"board_size" bson:"board_size"`
	KoRule    string     `json:"ko_rule" bson:"ko_rule"`
	Setups    []Setup    `json:"setups,omitempty" bson:"setups,omitempty"`
	Moves     []Move     `json:"moves" bson:"moves"`
	Status    string     `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty" bson:"ended_at,omitempty"`
}

// Setup lists stones added or removed outside of play.
type Setup struct {
	Black   []string `json:"black,omitempty" bson:"black,omitempty"`
	White   []string `json:"white,omitempty" bson:"white,omitempty"`
	Cleared []string `json:"cleared,omitempty" bson:"cleared,omitempty"`
}

type BoardState struct {
	GameID    string         `json:"game_id"`
	BoardSize int            `json:"board_size"`
	KoRule    string         `json:"ko_rule"`
	Rows      []string       `json:"rows"`
	MoveCount int            `json:"move_count"`
	Prisoners map[string]int `json:"prisoners"`
	Status    string         `json:"status"`
}

// FeedEvent is pushed to observers after every change of the game.
type FeedEvent struct {
	Kind     string   `json:"kind"`
	Move     *Move    `json:"move,omitempty"`
	Captured []string `json:"captured,omitempty"`
	Rows     []string `json:"rows,omitempty"`
	Error    string   `json:"error,omitempty"`
}

const (
	EventState  = "state"
	EventError  = "error"
	EventMove   = "move"
	EventUndo   = "undo"
	EventRedo   = "redo"
	EventSetup  = "setup"
	EventRevert = "revert_setup"
	EventEnd    = "end"
)
