package userform

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/pkg/features/resource"
)

// Live channel message types.
const (
	MessageChange = "change"
	MessageSubmit = "submit"
	MessageRender = "render"
)

const (
	liveWriteWait   = 10 * time.Second
	liveMaxMessage  = 64 << 10
	liveErrDecode   = "decode"
	liveErrRead     = "read"
	liveErrWrite    = "write"
	liveErrUpgrade  = "upgrade"
	liveErrRender   = "render"
	liveErrProtocol = "protocol"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// ServerMessage carries a fresh render of the page content.
type ServerMessage struct {
	Type      string `json:"type"`
	HTML      string `json:"html"`
	Submitted bool   `json:"submitted"`
	Error     string `json:"error,omitempty"`
}

// liveScript connects the page to /live. Without it, or before the socket
// opens, the form falls back to a plain POST.
const liveScript = `(function () {
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + "/live");
  var open = false;
  ws.onopen = function () { open = true; };
  ws.onclose = function () { open = false; };
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type !== "render") return;
    var root = document.getElementById("userform");
    if (root) root.outerHTML = msg.html;
    if (msg.submitted) document.dispatchEvent(new CustomEvent("userform:submitted"));
  };
  document.addEventListener("change", function (ev) {
    var t = ev.target;
    if (!open || !t.name || t.getAttribute("data-live") !== "change") return;
    var value = t.type === "checkbox" ? (t.checked ? "true" : "false") : t.value;
    ws.send(JSON.stringify({ type: "change", field: t.name, value: value }));
  });
  document.addEventListener("submit", function (ev) {
    if (!open) return;
    ev.preventDefault();
    ws.send(JSON.stringify({ type: "submit" }));
  });
})();`

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(r)
	var header http.Header
	if !ok {
		sess = s.sessions.Create()
		header = http.Header{"Set-Cookie": {sessionCookie(r, sess.ID).String()}}
	}

	conn, err := s.upgrader.Upgrade(w, r, header)
	if err != nil {
		s.metrics.RecordWebSocketError(liveErrUpgrade)
		s.logger.Debug("live upgrade failed", "session", sess.ID, "error", err)
		return
	}

	detach := s.sessions.Attach(sess)
	s.metrics.RecordSessionOpen()
	defer func() {
		detach()
		s.metrics.RecordSessionClose()
	}()

	lc := &liveConn{server: s, session: sess, conn: conn}
	lc.serve(r.Context())
}

// liveConn is one browser connection to a session. Reads happen on the
// serving goroutine; writes come from it and from listing watchers.
type liveConn struct {
	server  *Server
	session *Session
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *liveConn) serve(ctx context.Context) {
	defer c.conn.Close()

	listing := c.server.page.Listing()
	unwatch := listing.Watch(func(state resource.State) {
		if state == resource.Ready || state == resource.Error {
			c.push(false, nil)
		}
	})
	defer unwatch()

	listing.Fetch()
	c.push(false, nil)

	c.conn.SetReadLimit(liveMaxMessage)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.metrics.RecordWebSocketError(liveErrRead)
				c.server.logger.Debug("live read failed", "session", c.session.ID, "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.server.metrics.RecordWebSocketError(liveErrDecode)
			c.push(false, err)
			continue
		}
		c.handle(ctx, msg)
	}
}

func (c *liveConn) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case MessageChange:
		c.push(false, c.session.Apply(msg.Field, msg.Value))

	case MessageSubmit:
		result, err := c.session.Submit(ctx)
		c.server.metrics.RecordSubmission(result.Accepted)
		c.push(result.Accepted, err)

	default:
		c.server.metrics.RecordWebSocketError(liveErrProtocol)
		c.push(false, errors.Newf(errors.CategoryContract, "unknown message type %q", msg.Type))
	}
}

// push renders the session and sends it. cause, when set, is reported in
// the message; validation failures are already part of the markup.
func (c *liveConn) push(submitted bool, cause error) {
	html, err := c.session.Fragment()
	if err != nil {
		c.server.metrics.RecordWebSocketError(liveErrRender)
		c.server.logger.Error("live render failed", "session", c.session.ID, "error", err)
		return
	}

	msg := ServerMessage{Type: MessageRender, HTML: html, Submitted: submitted}
	if cause != nil {
		msg.Error = Reason(cause)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		c.server.metrics.RecordWebSocketError(liveErrWrite)
		c.server.logger.Debug("live write failed", "session", c.session.ID, "error", err)
	}
}
