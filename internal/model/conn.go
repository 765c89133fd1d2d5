package model

import "sync"

// Conn is the subset of a websocket connection the game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// SyncConn serialises writes to a Conn. A websocket allows one writer at a time,
// and a game connection is written to by its own read loop and by every broadcast.
type SyncConn struct {
	mu   sync.Mutex
	conn Conn
}

func NewSyncConn(conn Conn) *SyncConn {
	return &SyncConn{conn: conn}
}

func (c *SyncConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *SyncConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(messageType, data)
}

func (c *SyncConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}
