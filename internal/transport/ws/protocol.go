package ws

import (
	"encoding/json"
	"fmt"

	"github.com/verte-zerg/keyidle/internal/engine"
)

// Action types accepted from clients.
const (
	ActState            = "state"
	ActClick            = "click"
	ActType             = "type"
	ActBuy              = "buy"
	ActUpgrade          = "upgrade"
	ActClickPower       = "click_power"
	ActSpeed            = "speed"
	ActToggleAutoBuy    = "toggle_autobuy"
	ActToggleChallenges = "toggle_challenges"
	ActTrigger          = "trigger"
	ActCheat            = "cheat"
)

// Frame types sent to clients.
const (
	FrameResult = "result"
	FrameState  = "state"
)

const errRateLimited = "rate limited"

// Action is one client request.
type Action struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

// Frame is a server message: either the reply to an action or a periodic
// state broadcast.
type Frame struct {
	Type    string       `json:"type"`
	Action  string       `json:"action,omitempty"`
	OK      bool         `json:"ok"`
	Error   string       `json:"error,omitempty"`
	Suggest []string     `json:"suggest,omitempty"`
	State   *engine.View `json:"state,omitempty"`
}

// DecodeAction parses a client message.
func DecodeAction(data []byte) (Action, error) {
	var act Action
	if err := json.Unmarshal(data, &act); err != nil {
		return Action{}, fmt.Errorf("failed to decode action: %w", err)
	}
	if act.Type == "" {
		return Action{}, fmt.Errorf("action type is required")
	}
	return act, nil
}
