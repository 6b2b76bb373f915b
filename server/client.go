package main

import (
	"encoding/json"
	"time"

	"github.com/NobuoKiyota/HTML-SHOOTER/internal/game"
	"github.com/NobuoKiyota/HTML-SHOOTER/internal/logger"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 90 // input may arrive every frame
	historyLimit      = 20
)

// Client represents a WebSocket connection: a pilot's display, or a paired
// phone that only sends input.
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	remoteAddr   string
	msgCount     int
	msgResetAt   time.Time
	pilot        *Pilot
	isController bool
	// Auth state
	authPlayerID int64 // 0 = not signed in
	authUsername string
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

func (c *Client) log() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{"remote": c.remoteAddr, "player": c.authPlayerID})
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log().WithError(err).Warn("ws read")
			}
			break
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log().Warn("rate limit exceeded, disconnecting")
			break
		}

		if msgType == websocket.BinaryMessage {
			if in, ok := DecodeBinaryInput(message); ok {
				c.handleInputState(in)
			}
			continue
		}
		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// 0xFF marks frames queued by SendBinary
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log().WithError(err).Error("marshal")
		return
	}
	c.SendRaw(data)
}

// SendRaw queues pre-marshaled bytes as a text message
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }() // send on a closed channel after unregister
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary queues bytes as a binary WebSocket message
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(err error) {
	c.SendJSON(Envelope{T: MsgCue, Data: CueMsg{Cues: []game.Cue{game.CueError}}})
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: err.Error()}})
}

// DecodeBinaryInput parses [0x01, x_hi, x_lo, y_hi, y_lo, flags]
func DecodeBinaryInput(msg []byte) (ClientInput, bool) {
	if len(msg) != 6 || msg[0] != 0x01 {
		return ClientInput{}, false
	}
	flags := msg[5]
	return ClientInput{
		X:      float64(int16(uint16(msg[1])<<8 | uint16(msg[2]))),
		Y:      float64(int16(uint16(msg[3])<<8 | uint16(msg[4]))),
		Brake:  flags&InputBrake != 0,
		Retire: flags&InputRetire != 0,
	}, true
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log().WithError(err).Debug("unmarshal")
		return
	}

	switch env.T {
	case MsgRegister:
		c.handleRegister(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgGuest:
		c.handleGuest()
	case MsgControl:
		c.handleControl(env.D)
	case MsgInput:
		var in ClientInput
		if json.Unmarshal(env.D, &in) == nil {
			c.handleInputState(in)
		}
	default:
		c.handlePilotMessage(env)
	}
}

// handlePilotMessage covers everything that needs a signed-in display
func (c *Client) handlePilotMessage(env InEnvelope) {
	p := c.pilot
	if p == nil || c.isController {
		c.sendError(ErrNoPilot)
		return
	}

	var err error
	switch env.T {
	case MsgHangar:
		c.SendJSON(Envelope{T: MsgHangar, Data: p.Hangar()})
	case MsgShop:
		c.SendJSON(Envelope{T: MsgShopList, Data: p.Shop()})
	case MsgBuy, MsgSell, MsgUpgradePart, MsgUnequip:
		var msg PartMsg
		if err = json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		switch env.T {
		case MsgBuy:
			err = p.BuyPart(msg.ID)
		case MsgSell:
			err = p.SellPart(msg.ID)
		case MsgUpgradePart:
			err = p.UpgradePart(msg.ID)
		default:
			err = p.Unequip(msg.ID)
		}
	case MsgPlace, MsgMove:
		var msg PlaceMsg
		if err = json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		if env.T == MsgPlace {
			err = p.Place(msg.ID, msg.Row, msg.Col)
		} else {
			err = p.Move(msg.ID, msg.Row, msg.Col)
		}
	case MsgUnlock:
		var msg CellMsg
		if err = json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		err = p.UnlockCell(msg.Row, msg.Col)
	case MsgResetGrid:
		err = p.ResetGrid()
	case MsgUpgrade:
		var msg UpgradeMsg
		if err = json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		err = p.BuyUpgrade(msg.Key)
	case MsgRepair:
		err = p.Repair()
	case MsgReroll:
		err = p.Reroll()
	case MsgLaunch:
		var msg LaunchMsg
		if err = json.Unmarshal(env.D, &msg); err != nil {
			return
		}
		var launched LaunchedMsg
		if launched, err = p.Launch(msg.MissionID); err == nil {
			c.SendJSON(Envelope{T: MsgLaunched, Data: launched})
		}
	case MsgRetire:
		err = p.Retire()
	case MsgPair:
		code := c.hub.pairings.Issue(p.ID)
		c.hub.analytics.Track(EvtPairing, p.ID, "", nil)
		c.SendJSON(Envelope{T: MsgPaired, Data: PairedMsg{Code: code, QR: "/qr?code=" + code}})
	case MsgProfile:
		c.handleProfile()
	case MsgHistory:
		c.handleHistory()
	}

	if err != nil {
		c.log().WithFields(logrus.Fields{"op": env.T, "error": err}).Debug("pilot op rejected")
		c.sendError(err)
	}
}

// handleInputState forwards control state from a display or a paired phone
func (c *Client) handleInputState(in ClientInput) {
	if c.pilot == nil {
		return
	}
	c.pilot.HandleInput(in)
}

// signIn attaches this connection to the player's pilot and sends the hangar
func (c *Client) signIn(id int64, username, token string, guest bool) {
	p, err := c.hub.sessions.Attach(id, username, c)
	if err != nil {
		c.sendError(err)
		return
	}
	c.authPlayerID = id
	c.authUsername = username
	c.pilot = p
	c.isController = false
	c.log().WithField("guest", guest).Info("pilot signed in")

	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{Token: token, Username: username, PlayerID: id, Guest: guest}})
	c.SendJSON(Envelope{T: MsgHangar, Data: p.Hangar()})
}

func (c *Client) handleRegister(data json.RawMessage) {
	var msg RegisterMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.sendError(err)
		return
	}
	c.signIn(id, msg.Username, token, false)
}

func (c *Client) handleLogin(data json.RawMessage) {
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err)
		return
	}
	c.signIn(id, msg.Username, token, false)
}

func (c *Client) handleAuth(data json.RawMessage) {
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, claims, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError(err)
		return
	}
	c.signIn(id, claims.Username, msg.Token, claims.Guest)
}

func (c *Client) handleGuest() {
	id, name, token, err := c.hub.auth.Guest()
	if err != nil {
		c.log().WithError(err).Error("guest sign-in")
		c.sendError(err)
		return
	}
	c.signIn(id, name, token, true)
}

// handleControl attaches a phone to the pilot that issued the code
func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	pilotID, ok := c.hub.pairings.Lookup(msg.Code)
	if !ok {
		c.sendError(ErrUnknownPairing)
		return
	}
	p := c.hub.sessions.GetPilot(pilotID)
	if p == nil {
		c.sendError(ErrNoPilot)
		return
	}
	c.pilot = p
	c.isController = true
	p.SetController(c)
	c.SendJSON(Envelope{T: MsgControlOK, Data: map[string]string{"pilot": p.Name}})
}

func (c *Client) handleProfile() {
	money, career := c.pilot.Profile()
	var achievements []string
	if c.hub.db != nil {
		ids, err := c.hub.db.GetAchievements(c.authPlayerID)
		if err != nil {
			c.sendError(err)
			return
		}
		achievements = ids
	}
	c.SendJSON(Envelope{T: MsgProfileOK, Data: ProfileDataMsg{
		Username:     c.authUsername,
		Money:        money,
		Career:       career,
		Achievements: achievements,
	}})
}

func (c *Client) handleHistory() {
	if c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgHistoryOK, Data: []RunRow{}})
		return
	}
	runs, err := c.hub.db.RunHistory(c.authPlayerID, historyLimit)
	if err != nil {
		c.sendError(err)
		return
	}
	if runs == nil {
		runs = []RunRow{}
	}
	c.SendJSON(Envelope{T: MsgHistoryOK, Data: runs})
}
