package websockets

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message types
const (
	MsgTypeSubscribe     = "subscribe"
	MsgTypeReportCreated = "report_created"
	MsgTypeReportStatus  = "report_status"
)

// Client represents a connected staff dashboard session
type Client struct {
	Conn    *websocket.Conn
	StaffID string
}

type WebSocketManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

// Message struct for incoming WebSocket messages
type Message struct {
	Type    string `json:"type"`
	StaffID string `json:"staff_id,omitempty"`
}

// Event struct for outgoing report feed payloads
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
