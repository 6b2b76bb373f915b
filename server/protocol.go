package main

import (
	"encoding/json"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
)

// Client -> Server message types
const (
	MsgRegister    = "register"
	MsgLogin       = "login"
	MsgAuth        = "auth"  // resume with a stored token
	MsgGuest       = "guest" // play without an account
	MsgHangar      = "hangar"
	MsgShop        = "shop"
	MsgBuy         = "buy"
	MsgSell        = "sell"
	MsgUpgradePart = "upgrade_part"
	MsgPlace       = "place"
	MsgMove        = "move"
	MsgUnequip     = "unequip"
	MsgUnlock      = "unlock"
	MsgResetGrid   = "reset_grid"
	MsgUpgrade     = "upgrade" // stat track
	MsgRepair      = "repair"
	MsgReroll      = "reroll"
	MsgLaunch      = "launch"
	MsgInput       = "input"
	MsgRetire      = "retire"
	MsgPair        = "pair"    // request a controller pairing code
	MsgControl     = "control" // phone controller attach
	MsgProfile     = "profile"
	MsgHistory     = "history"
)

// Server -> Client message types
const (
	MsgAuthOK    = "auth_ok"
	MsgShopList  = "shop_list"
	MsgCue       = "cue"
	MsgLaunched  = "launched"
	MsgResult    = "result"
	MsgPaired    = "paired"
	MsgControlOK = "control_ok"
	MsgCtrlOn    = "ctrl_on"  // notify display: controller attached
	MsgCtrlOff   = "ctrl_off" // notify display: controller detached
	MsgProfileOK = "profile_data"
	MsgHistoryOK = "history_data"
	MsgError     = "error"
	MsgReplaced  = "replaced" // another connection took over this pilot
)

// Binary input flags
const (
	InputBrake  = 0x01
	InputRetire = 0x02
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the JSON form of the pointer and button state
type ClientInput struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Brake  bool    `json:"brake"`
	Retire bool    `json:"retire,omitempty"`
}

type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthMsg struct {
	Token string `json:"token"`
}

type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"pid"`
	Guest    bool   `json:"guest,omitempty"`
}

// PartMsg addresses a part template or instance
type PartMsg struct {
	ID string `json:"id"`
}

// PlaceMsg puts (or moves) a part instance at a grid anchor
type PlaceMsg struct {
	ID  string `json:"id"`
	Row int    `json:"r"`
	Col int    `json:"c"`
}

type CellMsg struct {
	Row int `json:"r"`
	Col int `json:"c"`
}

type UpgradeMsg struct {
	Key string `json:"key"`
}

type LaunchMsg struct {
	MissionID string `json:"mission"`
}

type ControlMsg struct {
	Code string `json:"code"`
}

// HangarMsg is the full between-missions view of a pilot
type HangarMsg struct {
	Phase       string             `json:"phase"`
	Money       int                `json:"money"`
	HullDamage  float64            `json:"hull_damage"`
	RepairCost  int                `json:"repair_cost"`
	Inventory   map[string]int     `json:"inventory"`
	StatBonuses map[string]float64 `json:"stat_bonuses"`
	Career      game.CareerStats   `json:"career"`
	Upgrades    []game.UpgradeSpec `json:"upgrades"`
	Ship        game.GridView      `json:"ship"`
	Missions    []game.Mission     `json:"missions"`
	RerollCost  int                `json:"reroll_cost"`
}

type CueMsg struct {
	Cues []game.Cue `json:"cues"`
}

type LaunchedMsg struct {
	Mission game.Mission   `json:"mission"`
	Stats   game.ShipStats `json:"stats"`
}

type ResultMsg struct {
	Result       *game.Result     `json:"result"`
	Achievements []AchievementDef `json:"achievements,omitempty"`
}

type PairedMsg struct {
	Code string `json:"code"`
	QR   string `json:"qr"` // path of the PNG to display
}

type ProfileDataMsg struct {
	Username     string           `json:"username"`
	Money        int              `json:"money"`
	Career       game.CareerStats `json:"career"`
	Achievements []string         `json:"achievements"`
}

// ErrorMsg sends an error to the client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
