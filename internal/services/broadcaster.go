package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/joaosgotti/web-backend-caixa-dagua/internal/ws"
)

// LevelBroadcaster periodically fetches the newest level reading and
// pushes it to the websocket hub, so dashboards update without
// polling the API. Ingestion happens in a separate process, which is
// why this watches the store instead of hooking the listener.
type LevelBroadcaster struct {
	readings *ReadingService
	hub      *ws.Hub
	interval time.Duration
	ticker   *time.Ticker
	stopChan chan bool
	mu       sync.Mutex
	running  bool
	lastID   int64
}

// NewLevelBroadcaster creates a broadcaster over the given service and hub
func NewLevelBroadcaster(readings *ReadingService, hub *ws.Hub, interval time.Duration) *LevelBroadcaster {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &LevelBroadcaster{
		readings: readings,
		hub:      hub,
		interval: interval,
		stopChan: make(chan bool),
	}
}

// Start begins the broadcaster background process
func (b *LevelBroadcaster) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		log.Println("⚠️  Broadcaster: Already running")
		return
	}

	b.ticker = time.NewTicker(b.interval)
	b.running = true

	log.Printf("🕐 Broadcaster: Started - pushing new readings every %s", b.interval)

	go b.run()
}

// Stop halts the broadcaster
func (b *LevelBroadcaster) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.running {
		return
	}

	b.ticker.Stop()
	b.stopChan <- true
	b.running = false

	log.Println("🛑 Broadcaster: Stopped")
}

// run is the main broadcaster loop
func (b *LevelBroadcaster) run() {
	b.broadcastLatest()

	for {
		select {
		case <-b.ticker.C:
			b.broadcastLatest()
		case <-b.stopChan:
			return
		}
	}
}

// broadcastLatest pushes the newest reading if it changed since the
// last tick
func (b *LevelBroadcaster) broadcastLatest() {
	ctx, cancel := context.WithTimeout(context.Background(), b.interval)
	defer cancel()

	reading, err := b.readings.Latest(ctx)
	if err != nil {
		log.Printf("❌ Broadcaster: Failed to fetch latest reading: %v", err)
		return
	}
	if reading == nil || reading.ID == b.lastID {
		return
	}

	b.lastID = reading.ID
	b.hub.BroadcastLevelReading(reading)
}
