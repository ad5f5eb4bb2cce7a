package server

import (
	"context"
	"net/http"
	"time"

	"gridboard-server/internal/engine"
	"gridboard-server/pkg/api"
	"gridboard-server/pkg/logger"
	"gridboard-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
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

// Client - посредник между Websocket и прогоном роботов в GameService
type Client struct {
	Game  *engine.GameService
	Conn  *websocket.Conn
	Send  chan api.TurnUpdate
	ID    string
	Level int

	ctx    context.Context
	cancel context.CancelFunc
	log    *logrus.Entry
}

// NewClient сразу подписывает зрителя на Hub, чтобы не потерять первое сообщение
func NewClient(game *engine.GameService, conn *websocket.Conn, level int) *Client {
	id := utils.GenerateID()
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Game:   game,
		Conn:   conn,
		Send:   game.Hub.Register(id),
		ID:     id,
		Level:  level,
		ctx:    ctx,
		cancel: cancel,
		log:    logger.Log.WithFields(logrus.Fields{"client_id": id, "level": level}),
	}
}

// watch гоняет прогон и закрывает поток, когда он закончен
func (c *Client) watch() {
	defer c.Game.Hub.Unregister(c.ID)

	status, err := c.Game.Watch(c.ctx, c.Level, c.ID)
	if err != nil {
		c.log.WithError(err).Warn("Watch stopped")
		return
	}
	c.log.WithField("status", status).Info("Run streamed")
}

// readPump держит соединение: клиент ничего не шлет, но нужно ловить pong и закрытие
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.Game.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Errorf("WS Error: %v", err)
			}
			return
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
