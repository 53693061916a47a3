package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/GPTx-global/guru-aggregator/app"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	streamBuffer   = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// StreamMessage is pushed to websocket clients for every committed block that
// carries at least one requested event.
type StreamMessage struct {
	Height int64        `json:"height"`
	Time   time.Time    `json:"time"`
	Events []abci.Event `json:"events"`
}

// eventFilter keeps events whose type was requested. An empty filter keeps
// everything.
type eventFilter map[string]bool

func newEventFilter(query string) eventFilter {
	f := eventFilter{}
	for _, t := range strings.Split(query, ",") {
		if t = strings.TrimSpace(t); t != "" {
			f[t] = true
		}
	}
	return f
}

func (f eventFilter) apply(block app.Block) (StreamMessage, bool) {
	msg := StreamMessage{Height: block.Height, Time: block.Time}
	keep := func(events []abci.Event) {
		for _, e := range events {
			if len(f) == 0 || f[e.Type] {
				msg.Events = append(msg.Events, e)
			}
		}
	}
	for _, tx := range block.Txs {
		keep(tx.Events)
	}
	keep(block.EndBlockEvents)
	return msg, len(msg.Events) > 0
}

// handleWebSocket streams committed blocks. The optional events query
// parameter is a comma separated list of event types, e.g.
// /ws?events=answer_updated,new_round.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	filter := newEventFilter(r.URL.Query().Get("events"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	blocks, cancel := s.app.Subscribe(streamBuffer)
	done := make(chan struct{})
	go s.readPump(conn, done)
	s.writePump(conn, blocks, filter, done)
	cancel()
}

// readPump discards client messages and closes done when the peer goes away.
func (s *Server) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket closed", "error", err)
			}
			return
		}
	}
}

func (s *Server) writePump(conn *websocket.Conn, blocks <-chan app.Block, filter eventFilter, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case block, ok := <-blocks:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			msg, ok := filter.apply(block)
			if !ok {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
