package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"rps_rooms/internal/logger"
	"rps_rooms/internal/session"
	"rps_rooms/internal/ws"

	"github.com/gorilla/websocket"
)

// ws_smoke plays one round against a running server:
// A creates a room, B joins, A plays rock, B plays scissors.
func main() {
	logger.Init("info", false)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	url := fmt.Sprintf("ws://127.0.0.1:%s/ws", port)

	connA := dial(url, "A")
	defer connA.Close()
	connB := dial(url, "B")
	defer connB.Close()

	send(connA, "A", session.EventCreateRoom, nil)
	created := waitFor(connA, "A", session.EventRoomCreated)

	var room session.RoomCreated
	if err := json.Unmarshal(created.Payload, &room); err != nil {
		logger.Fatal("decode roomCreated", "error", err)
	}
	logger.Info("room created", "room", room.RoomID, "link", room.Link)

	send(connB, "B", session.EventJoinRoom, room.RoomID)
	waitFor(connB, "B", session.EventJoinSuccess)
	waitFor(connA, "A", session.EventBothPlayersJoined)
	waitFor(connB, "B", session.EventBothPlayersJoined)

	send(connA, "A", session.EventMove, map[string]any{"roomId": room.RoomID, "move": "rock"})
	send(connB, "B", session.EventMove, map[string]any{"roomId": room.RoomID, "move": "scissors"})

	resA := waitFor(connA, "A", session.EventResult)
	resB := waitFor(connB, "B", session.EventResult)
	logger.Info("A got", "result", string(resA.Payload))
	logger.Info("B got", "result", string(resB.Payload))

	logger.Info("smoke test finished")
}

func dial(url, name string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		logger.Fatal("dial", "client", name, "error", err)
	}
	return conn
}

func send(conn *websocket.Conn, name, event string, payload any) {
	msg := ws.Message{Type: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			logger.Fatal("encode", "client", name, "error", err)
		}
		msg.Payload = raw
	}
	if err := conn.WriteJSON(msg); err != nil {
		logger.Fatal("write", "client", name, "error", err)
	}
}

// waitFor drains frames until one of the given type arrives.
func waitFor(conn *websocket.Conn, name, event string) ws.Message {
	deadline := time.Now().Add(3 * time.Second)
	_ = conn.SetReadDeadline(deadline)

	for {
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Fatal("read", "client", name, "waiting_for", event, "error", err)
		}
		if msg.Type == event {
			return msg
		}
		logger.Info("skip", "client", name, "type", msg.Type)
	}
}
