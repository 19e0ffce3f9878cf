package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"ember-server/internal/models"
)

// Client представляет одно WebSocket-соединение слоя отображения.
type Client struct {
	ID   string
	Conn *websocket.Conn
	send chan []byte // Канал исходящих сообщений этого соединения
}

// NewClient создаёт клиента с буферизованной очередью отправки.
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		send: make(chan []byte, 256),
	}
}

// Manager управляет активными WebSocket-соединениями и рассылает им свежие
// снимки состояния. Обычно подключений одно-два (вкладки одного
// пользователя), но карта их число не ограничивает.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan string
	broadcast  chan []byte
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewManager создаёт менеджер и запускает его цикл управления.
func NewManager(logger *zap.Logger) *Manager {
	m := &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan string),
		broadcast:  make(chan []byte, 16),
		logger:     logger,
	}
	go m.run()
	return m
}

func (m *Manager) run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// Повтор идентификатора означает переподключение: старое
			// соединение закрываем.
			if old, ok := m.clients[client.ID]; ok {
				close(old.send)
				_ = old.Conn.Close()
			}
			m.clients[client.ID] = client
			m.mu.Unlock()
			m.logger.Info("WebSocket client registered", zap.String("conn_id", client.ID))

		case id := <-m.unregister:
			m.mu.Lock()
			if client, ok := m.clients[id]; ok {
				delete(m.clients, id)
				close(client.send)
			}
			m.mu.Unlock()
			m.logger.Info("WebSocket client unregistered", zap.String("conn_id", id))

		case message := <-m.broadcast:
			m.mu.RLock()
			for _, client := range m.clients {
				select {
				case client.send <- message:
				default:
					// Медленный клиент не должен задерживать остальных.
					m.logger.Warn("WebSocket send queue full, dropping snapshot",
						zap.String("conn_id", client.ID))
				}
			}
			m.mu.RUnlock()
		}
	}
}

// RegisterClient регистрирует новое соединение.
func (m *Manager) RegisterClient(client *Client) {
	m.register <- client
}

// UnregisterClient снимает соединение с учёта.
func (m *Manager) UnregisterClient(id string) {
	m.unregister <- id
}

// BroadcastSnapshot рассылает снимок состояния всем подключениям.
// Сериализация выполняется один раз на рассылку.
func (m *Manager) BroadcastSnapshot(snapshot models.Snapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		m.logger.Error("Failed to marshal snapshot for broadcast", zap.Error(err))
		return
	}
	select {
	case m.broadcast <- data:
	default:
		m.logger.Warn("Broadcast queue full, dropping snapshot")
	}
}
