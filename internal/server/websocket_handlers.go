package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebSocketFeedHandler handles WebSocket connections for live feed updates.
// Events published for the user while connected are pushed as JSON frames.
func (s *Server) WebSocketFeedHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		// userID is set by the websocket auth middleware.
		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			log.Printf("WebSocket Feed: Unauthenticated connection attempt")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}
		userID := userIDVal.(uint)

		if s.hub == nil {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"live feed unavailable"}`))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			log.Printf("WebSocket Feed: Failed to register user %d: %v", userID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		log.Printf("WebSocket: User %d connected to live feed", userID)

		// WritePump runs in its own goroutine; ReadPump blocks until the
		// connection drops and unregisters the client on the way out.
		go client.WritePump()
		client.ReadPump()
	})
}
