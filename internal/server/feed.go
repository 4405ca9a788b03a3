package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sattva/internal/logging"
	"sattva/internal/store"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedBuffer       = 8
)

// stateFeed pushes a store snapshot to every connected WebSocket client
// after each action, plus an initial snapshot on connect. This is the wire
// form of the store's subscribe mechanism.
type stateFeed struct {
	store    *store.Store
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan store.Snapshot
	unsub   func()
}

func newStateFeed(st *store.Store, logger logging.Logger) *stateFeed {
	return &stateFeed{
		store:  st,
		logger: logging.OrNop(logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan store.Snapshot),
	}
}

// start subscribes to the store and fans each snapshot out to clients.
// A slow client drops intermediate snapshots rather than blocking the rest.
func (f *stateFeed) start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsub != nil {
		return
	}
	f.unsub = f.store.Subscribe(func(snap store.Snapshot) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, ch := range f.clients {
			select {
			case ch <- snap:
			default:
			}
		}
	})
}

func (f *stateFeed) stop() {
	f.mu.Lock()
	unsub := f.unsub
	f.unsub = nil
	conns := make([]*websocket.Conn, 0, len(f.clients))
	for conn, ch := range f.clients {
		close(ch)
		conns = append(conns, conn)
	}
	f.clients = make(map[*websocket.Conn]chan store.Snapshot)
	f.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	for _, conn := range conns {
		conn.Close()
	}
}

func (f *stateFeed) handle(c *gin.Context) {
	conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		f.logger.Warn("websocket upgrade failed: %v", err)
		return
	}

	conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	if err := conn.WriteJSON(f.store.Snapshot()); err != nil {
		conn.Close()
		return
	}

	ch := make(chan store.Snapshot, feedBuffer)
	f.mu.Lock()
	f.clients[conn] = ch
	f.mu.Unlock()
	f.logger.Debug("state feed client connected: %s", conn.RemoteAddr())

	go f.writeLoop(conn, ch)

	// The read loop exists only to observe the close handshake.
	go func() {
		defer f.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (f *stateFeed) writeLoop(conn *websocket.Conn, ch <-chan store.Snapshot) {
	for snap := range ch {
		conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
		if err := conn.WriteJSON(snap); err != nil {
			f.logger.Debug("state feed write failed, dropping client: %v", err)
			f.remove(conn)
			return
		}
	}
}

func (f *stateFeed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	if ch, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
		close(ch)
	}
	f.mu.Unlock()
	conn.Close()
}
