package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"customer-nav/internal/mapview"
	"customer-nav/internal/models"
	"customer-nav/internal/navigator"
	"customer-nav/internal/tracker"
)

// === Map Sessions ===

const sessionKey = "map_session"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MapSession is one connected map page and the controller behind it.
type MapSession struct {
	ID         string
	Controller *navigator.Controller
	feed       *tracker.Feed
	conn       *websocket.Conn
	cancel     context.CancelFunc
	closeOnce  sync.Once
}

func (s *MapSession) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.feed.Close()
		_ = s.conn.Close()
	})
}

// SessionRegistry maps a browser session id to its live map session. A reconnect
// from the same browser replaces the previous map session.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*MapSession
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*MapSession)}
}

func (r *SessionRegistry) Put(s *MapSession) {
	r.mu.Lock()
	old := r.sessions[s.ID]
	r.sessions[s.ID] = s
	r.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

func (r *SessionRegistry) Get(id string) *MapSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Remove drops s if it is still the current session for its id.
func (r *SessionRegistry) Remove(s *MapSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[s.ID] == s {
		delete(r.sessions, s.ID)
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// browserSession makes sure every request carries a map session id cookie.
func browserSession(c *gin.Context) {
	session := sessions.Default(c)
	id, _ := session.Get(sessionKey).(string)
	if id == "" {
		id = uuid.New().String()
		session.Set(sessionKey, id)
		if err := session.Save(); err != nil {
			log.Printf("Error saving session: %v", err)
		}
	}
	c.Set(sessionKey, id)
	c.Next()
}

// ClientMessage is a frame sent by the page.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	MsgPosition               = "position"
	MsgPositionError          = "position_error"
	MsgGeolocationUnavailable = "geolocation_unavailable"
	MsgRecenter               = "recenter"
	MsgSetRoute               = "set_route"
	MsgNavigate               = "navigate"
)

type positionErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e positionErrorData) Error() string {
	return e.Message
}

type setRouteData struct {
	IDs string `json:"ids"`
}

// MapSettings is sent to the page right after it connects.
type MapSettings struct {
	TileURL     string            `json:"tile_url"`
	MaxZoom     int               `json:"max_zoom"`
	InitialZoom int               `json:"initial_zoom"`
	Center      models.Coordinate `json:"center"`
}

func (s *Server) handleWebSocket(c *gin.Context) {
	id := c.GetString(sessionKey)

	// cookies set by browserSession must ride on the handshake response
	header := http.Header{}
	for _, v := range c.Writer.Header().Values("Set-Cookie") {
		header.Add("Set-Cookie", v)
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, header)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	remote := mapview.NewRemote(conn, log.Default())
	if err := remote.Send(mapview.CmdConfig, s.mapSettings()); err != nil {
		log.Printf("Error sending map settings: %v", err)
		_ = conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &MapSession{
		ID: id,
		Controller: navigator.New(remote, log.Default(), navigator.Options{
			FollowZoom:         s.cfg.Map.FollowZoom,
			RouteWhileDragging: s.cfg.Routing.RouteWhileDragging,
		}),
		feed:   tracker.NewFeed(),
		conn:   conn,
		cancel: cancel,
	}
	s.sessions.Put(sess)
	log.Printf("Map session %s connected. Total: %d", id, s.sessions.Len())

	sess.Controller.Start(ctx, s.directorySource(), sess.feed)

	defer func() {
		s.sessions.Remove(sess)
		sess.Close()
		sess.Controller.Wait()
		log.Printf("Map session %s disconnected. Total: %d", id, s.sessions.Len())
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Bad frame from %s: %v", id, err)
			continue
		}
		s.dispatch(sess, msg)
	}
}

// dispatch queues one page event on the session feed. Samples and button
// presses run on the tracker loop in the order the page sent them.
func (s *Server) dispatch(sess *MapSession, msg ClientMessage) {
	ctl := sess.Controller
	switch msg.Type {
	case MsgPosition:
		var pos models.Coordinate
		if err := json.Unmarshal(msg.Data, &pos); err != nil {
			sess.feed.Push(tracker.Update{Err: err})
			return
		}
		sess.feed.Push(tracker.Update{Position: pos})
	case MsgPositionError:
		var e positionErrorData
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			e.Message = err.Error()
		}
		sess.feed.Push(tracker.Update{Err: e})
	case MsgGeolocationUnavailable:
		sess.feed.Unavailable()
	case MsgRecenter:
		sess.feed.Do(ctl.Recenter)
	case MsgSetRoute:
		var d setRouteData
		if err := json.Unmarshal(msg.Data, &d); err != nil {
			log.Printf("Bad set_route payload: %v", err)
		}
		// undecodable payloads still reach the planner and get rejected there
		sess.feed.Do(func() { ctl.SetRoute(d.IDs) })
	case MsgNavigate:
		sess.feed.Do(func() { ctl.Navigate() })
	default:
		log.Printf("Unknown message type %q", msg.Type)
	}
}
