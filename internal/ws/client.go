package ws

import (
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Время на запись одного сообщения клиенту.
	writeWait = 10 * time.Second
	// Время ожидания следующего pong от клиента.
	pongWait = 60 * time.Second
	// Период отправки ping, должен быть меньше pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Максимальный размер входящего сообщения.
	maxMessageSize = 512
)

// ReadPump вычитывает входящие сообщения соединения. Канал работает только
// сверху вниз (снимки состояния), поэтому всё входящее игнорируется, а само
// чтение нужно для отслеживания закрытия и pong-сообщений.
func (c *Client) ReadPump(manager *Manager, logger *zap.Logger) {
	defer func() {
		manager.UnregisterClient(c.ID)
		_ = c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.String("conn_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

// WritePump переливает сообщения из очереди отправки в соединение и
// поддерживает его периодическими ping-сообщениями.
func (c *Client) WritePump(logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Менеджер закрыл очередь: прощаемся с клиентом.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket write failed", zap.String("conn_id", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
