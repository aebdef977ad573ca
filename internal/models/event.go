package models

// EventKind discriminates inbound chat events
type EventKind int

const (
	EventCommand EventKind = iota + 1
	EventButton
	EventText
)

// Command is a slash command typed by the user
type Command string

const (
	CommandStart Command = "start"
	CommandHelp  Command = "help"
)

// Action is a menu choice. Wire tokens are decoded once with ParseAction.
type Action int

const (
	ActionUnknown Action = iota
	ActionStartMain
	ActionPassword
	ActionMenuGames
	ActionGameFreeFire
	ActionGameBGMI
	ActionGameCOD
	ActionCancel
	ActionSensitivity
	ActionInternal
	ActionLagFix
	ActionInGame
	ActionProblems
	ActionControls
	ActionSaveProfile
	ActionLoadProfile
	ActionBackGames
)

var actionTokens = map[Action]string{
	ActionStartMain:    "start_main",
	ActionPassword:     "password",
	ActionMenuGames:    "menu_games",
	ActionGameFreeFire: "game_freefire",
	ActionGameBGMI:     "game_bgmi",
	ActionGameCOD:      "game_cod",
	ActionCancel:       "cancel",
	ActionSensitivity:  "sub_sensitivity",
	ActionInternal:     "sub_internal",
	ActionLagFix:       "sub_lagfix",
	ActionInGame:       "sub_ingame",
	ActionProblems:     "sub_problems",
	ActionControls:     "sub_controls",
	ActionSaveProfile:  "sub_save_profile",
	ActionLoadProfile:  "sub_load_profile",
	ActionBackGames:    "back_games",
}

var tokenActions = func() map[string]Action {
	m := make(map[string]Action, len(actionTokens))
	for a, t := range actionTokens {
		m[t] = a
	}
	return m
}()

// ParseAction decodes a button payload. Unrecognized tokens give ActionUnknown.
func ParseAction(token string) Action {
	return tokenActions[token]
}

// Token returns the wire token of the action
func (a Action) Token() string {
	return actionTokens[a]
}

// Game returns the game picked by a game_* action
func (a Action) Game() (GameID, bool) {
	switch a {
	case ActionGameFreeFire:
		return GameFreeFire, true
	case ActionGameBGMI:
		return GameBGMI, true
	case ActionGameCOD:
		return GameCOD, true
	}
	return "", false
}

// Event is one inbound message from a chat user
type Event struct {
	UserID  string
	Kind    EventKind
	Command Command
	Action  Action
	Text    string
}

// CommandEvent builds a command event
func CommandEvent(userID string, cmd Command) Event {
	return Event{UserID: userID, Kind: EventCommand, Command: cmd}
}

// ButtonEvent builds a button event
func ButtonEvent(userID string, action Action) Event {
	return Event{UserID: userID, Kind: EventButton, Action: action}
}

// TextEvent builds a free text event
func TextEvent(userID, text string) Event {
	return Event{UserID: userID, Kind: EventText, Text: text}
}

// Button is one entry of an outbound menu
type Button struct {
	Label  string `json:"label"`
	Action Action `json:"-"`
}

// Reply is the outbound response to one event. Buttons holds menu rows in
// display order and is nil for a plain text reply.
type Reply struct {
	Text    string     `json:"text"`
	Buttons [][]Button `json:"-"`
}

// Actions flattens the menu in display order
func (r Reply) Actions() []Action {
	var out []Action
	for _, row := range r.Buttons {
		for _, b := range row {
			out = append(out, b.Action)
		}
	}
	return out
}
