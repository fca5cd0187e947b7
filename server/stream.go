package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// HandleStream は1つのゲームに紐づく WebSocket です。
// 最初に現在の盤面を送り、その後はクライアントからの command ごとに
// Response か {"error": ...} を返します
func (s *Server) HandleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade がすでにクライアントへ応答済み
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.WithFields(logrus.Fields{"session": sess.ID})
	log.Debug("stream opened")

	if err := conn.WriteJSON(response(sess.ID, sess.Grid(), nil)); err != nil {
		log.WithError(err).Warn("stream write failed")
		return
	}

	for {
		var cmd command
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("stream read failed")
			}
			break
		}

		var out interface{}
		if resp, err := s.execute(sess, cmd); err != nil {
			out = map[string]string{"error": err.Error()}
		} else {
			out = resp
		}
		if err := conn.WriteJSON(out); err != nil {
			log.WithError(err).Warn("stream write failed")
			break
		}
	}
	log.Debug("stream closed")
}
