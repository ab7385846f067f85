package sse

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Event SSE 事件
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client 一个已连接的订阅端
type Client struct {
	ID     string
	UserID uint
	Events chan Event
}

// Hub 管理所有 SSE 连接。设备履历写入后广播变动事件，
// 前端资产看板据此刷新。
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
	}
}

// Register 注册订阅端
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	h.logger.Debug("SSE client registered",
		zap.String("client_id", client.ID),
		zap.Uint("user_id", client.UserID),
		zap.Int("total", len(h.clients)))
}

// Unregister 注销订阅端并关闭其事件通道
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		h.logger.Debug("SSE client unregistered",
			zap.String("client_id", clientID),
			zap.Int("total", len(h.clients)))
	}
}

// Broadcast 向所有订阅端广播。订阅端缓冲满时丢弃，不阻塞写入方。
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			h.logger.Warn("SSE client buffer full, dropping event",
				zap.String("client_id", client.ID))
		}
	}
}

// PublishMovement 广播设备履历变动
func (h *Hub) PublishMovement(deviceID uint, movementType, description string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"device_id":     deviceID,
		"movement_type": movementType,
		"description":   description,
	})
	h.Broadcast(Event{EventType: "device_movement", Data: string(payload)})
}
