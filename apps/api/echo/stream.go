package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-landing/core/flowdemo"
)

const (
	frameSnapshot = "snapshot"
	frameError    = "error"

	subscriberBuffer = 16
	writeWait        = 10 * time.Second
	maxCommandSize   = 4 << 10
)

type (
	// Frame is a message pushed to websocket clients.
	Frame struct {
		Type     string             `json:"type"`
		Snapshot *flowdemo.Snapshot `json:"snapshot,omitempty"`
		Error    interface{}        `json:"error,omitempty"`
	}

	// broadcaster is the flowdemo.View of an API session: it fans the rendered snapshots out to the
	// session's websocket subscribers. Subscribers that fall behind are dropped.
	broadcaster struct {
		mu     sync.Mutex
		subs   map[chan flowdemo.Snapshot]struct{}
		last   flowdemo.Snapshot
		closed bool
	}

	wsConn struct {
		mu   sync.Mutex // gorilla connections support one concurrent writer
		conn *websocket.Conn
	}
)

var _ flowdemo.View = (*broadcaster)(nil)

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[chan flowdemo.Snapshot]struct{})}
}

func (b *broadcaster) Render(s flowdemo.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.last = s
	for ch := range b.subs {
		select {
		case ch <- s:
		default:
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// subscribe returns a channel primed with the last rendered snapshot.
func (b *broadcaster) subscribe() (chan flowdemo.Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false
	}

	ch := make(chan flowdemo.Snapshot, subscriberBuffer)
	ch <- b.last
	b.subs[ch] = struct{}{}
	return ch, true
}

func (b *broadcaster) unsubscribe(ch chan flowdemo.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

func (b *broadcaster) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription. Called when the session is removed.
func (b *broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *wsConn) writeClose(code int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
}

// stream pushes every snapshot of the session and reads commands until either side closes.
func (api *demoApi) stream(ctx echo.Context) error {
	sess := ctx.Get("session").(*flowdemo.Session)
	b, ok := sess.View.(*broadcaster)
	if !ok {
		return errHttpNotFound
	}

	conn, err := api.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// the upgrader has already replied
		api.logger.Debug(fmt.Sprintf("demo.stream(%s): upgrade: %v", sess.ID, err))
		return nil
	}
	defer conn.Close()
	ws := &wsConn{conn: conn}

	frames, ok := b.subscribe()
	if !ok {
		ws.writeClose(websocket.CloseNormalClosure, "session closed")
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range frames {
			snap := snap
			if err := ws.writeJSON(Frame{Type: frameSnapshot, Snapshot: &snap}); err != nil {
				conn.Close() // unblocks the reader
				return
			}
		}
		ws.writeClose(websocket.CloseNormalClosure, "session closed")
		conn.Close()
	}()

	api.readCommands(ws, sess)
	b.unsubscribe(frames)
	<-done
	return nil
}

func (api *demoApi) readCommands(ws *wsConn, sess *flowdemo.Session) {
	ws.conn.SetReadLimit(maxCommandSize)
	for {
		_, msg, err := ws.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				api.logger.Debug(fmt.Sprintf("demo.stream(%s): read: %v", sess.ID, err))
			}
			return
		}
		if _, err = api.registry.Get(sess.ID); err != nil { // keeps the session alive
			return
		}

		var data CommandRequest
		if err = json.Unmarshal(msg, &data); err != nil {
			err = echo.NewHTTPError(http.StatusBadRequest, "invalid command")
		} else {
			err = applyCommand(sess.Controller, data, api.validate)
		}
		if err != nil {
			if ws.writeJSON(Frame{Type: frameError, Error: api.errorMessage(err, sess.ID)}) != nil {
				return
			}
		}
	}
}

func (api *demoApi) errorMessage(err error, sessID string) interface{} {
	if _, message, ok := clientError(err, api.translator); ok {
		return message
	}
	api.logger.Error(fmt.Sprintf("demo.stream(%s): %v", sessID, err), err)
	return http.StatusText(http.StatusInternalServerError)
}
