package mux

import (
	"encoding/json"
	"net/http"
	"time"

	"chipstack-server/pkg/playable"
	"chipstack-server/pkg/room"
	"chipstack-server/pkg/table"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const writeWait = time.Second * 10
const pongWait = time.Second * 60
const pingPeriod = pongWait * 9 / 10

// socket pumps messages between a websocket connection and the table's dealer
type socket struct {
	client *room.Client
	log    logrus.FieldLogger
	// done is closed once the read side has stopped
	done chan bool
}

func (m *Mux) getTableUUIDWS() http.HandlerFunc {
	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		tbl := r.Context().Value(ctxTableKey).(*table.Table)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logrus.WithError(err).Error("could not upgrade connection")
			return
		}

		client := room.NewClient(conn, playerIDFromContext(r.Context()), tbl.UUID)
		s := &socket{
			client: client,
			log:    logrus.WithField("client", client.String()),
			done:   make(chan bool),
		}

		if err := m.pitBoss.ClientConnected(r.Context(), client); err != nil {
			s.log.WithError(err).Error("could not connect client")
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "table unavailable"))
			_ = conn.Close()
			return
		}

		defer func() {
			m.pitBoss.ClientDisconnected(client)
			_ = conn.Close()
			close(s.done)
		}()

		go s.writeLoop()
		s.readLoop()
	}
}

func (s *socket) writeLoop() {
	conn := s.client.Conn
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case reason := <-s.client.Close:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))

			// give the peer a moment to answer with its close frame
			select {
			case <-s.done:
			case <-time.After(time.Second):
			}
			return
		case msg := <-s.client.SendChan():
			if logrus.IsLevelEnabled(logrus.TraceLevel) {
				b, _ := json.Marshal(msg)
				s.log.WithField("message", string(b)).Trace("sending message to client")
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				s.log.WithError(err).Error("could not write message")
				return
			}
		}
	}
}

func (s *socket) readLoop() {
	conn := s.client.Conn
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg playable.PayloadIn
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Error("could not read message")
			}

			s.client.CloseError = err
			return
		}

		s.client.ReceivedMessage(&msg)
	}
}
