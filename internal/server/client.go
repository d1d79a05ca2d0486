package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"tilesight-server/internal/engine"
	"tilesight-server/pkg/logger"
)

// Настройки WebSocket.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между WebSocket и сеансом движка.
//
// Два конкурентных цикла на соединение: writePump сбрасывает исходящие
// кадры (включая периодические LevelState от драйвера), readPump висит
// на чтении входящих кадров и кормит ими диспетчер сеанса.
type Client struct {
	svc     *engine.Service
	conn    *websocket.Conn
	session *engine.Connection

	send chan []byte

	mu     sync.Mutex
	closed bool
}

// NewClient оборачивает принятое websocket-соединение.
func NewClient(svc *engine.Service, conn *websocket.Conn) *Client {
	return &Client{
		svc:  svc,
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// SendFrame реализует engine.Sink: ставит готовый кадр в исходящую
// очередь. Если клиент не успевает вычитывать, кадр отбрасывается:
// каждый кадр - полный снимок, следующий тик всё равно принесет свежий.
func (c *Client) SendFrame(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	select {
	case c.send <- frame:
	default:
		logger.Log.Debug("Outgoing queue full, dropping frame")
	}
	return nil
}

// shutdown закрывает исходящую очередь ровно один раз.
// Защита мьютексом нужна из-за конкурентных SendFrame от драйвера тиков.
func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}

// readPump создает сеанс движка и читает входящие кадры клиента.
// Висит на чтении следующего кадра - это та самая точка ожидания
// приемного цикла; исходящие тики она не блокирует.
func (c *Client) readPump() {
	defer func() {
		if c.session != nil {
			c.svc.Disconnect(c.session)
		}
		c.shutdown()
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("Websocket close in readPump")
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("Failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("Failed to set pong read deadline")
		}
		return nil
	})

	// Сеанс создается до первого кадра: спавн игрока - первая мутация.
	// Уровень без единой клетки пола отклоняет подключение сразу.
	session, err := c.svc.Connect(c)
	if err != nil {
		logger.Log.WithError(err).Error("Rejecting connection")
		return
	}
	c.session = session

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Error("Websocket read error")
			}
			break
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		session.HandlePacket(data)
	}
}

// writePump отправляет кадры клиенту и поддерживает соединение ping-ами.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("Websocket close in writePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("Failed to set write deadline")
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("Write close message failed")
				}
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				logger.Log.WithError(err).Debug("Write frame failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("Failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("Ping failed")
				return
			}
		}
	}
}
