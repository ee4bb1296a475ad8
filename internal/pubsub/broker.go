package pubsub

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// TopicScoreboard carries a message every time a team's credited score
// changes. Subscribers use it to refresh live scoreboard views.
const TopicScoreboard = "scoreboard"

// Broker is a simple in-memory pub/sub system.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan []byte // topic -> list of subscriber channels
}

// ScoreUpdate is the payload published on TopicScoreboard.
type ScoreUpdate struct {
	TeamID    string `json:"team_id"`
	ProblemID string `json:"problem_id"`
	Points    int    `json:"points"`
	NewScore  int    `json:"new_score"`
}

var (
	once   sync.Once
	broker *Broker
)

// GetBroker returns the singleton instance of the Broker.
func GetBroker() *Broker {
	once.Do(func() {
		broker = &Broker{
			subscribers: make(map[string][]chan []byte),
		}
	})
	return broker
}

// Subscribe subscribes to a topic and returns the message channel plus an
// unsubscribe func.
func (b *Broker) Subscribe(topic string) (<-chan []byte, func()) {
	b.mu.Lock()
	ch := make(chan []byte, 128)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subscribers[topic]
		for i, sub := range subscribers {
			if sub == ch {
				b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
		zap.S().Debugf("unsubscribed from topic %s", topic)
	}

	zap.S().Debugf("new subscription to topic %s", topic)
	return ch, unsubscribe
}

// Publish publishes a message to all subscribers of a topic. Slow
// subscribers with a full channel miss the message rather than block the
// publisher; scoreboard consumers re-read the full board on each message, so
// a dropped update is only a delayed refresh.
func (b *Broker) Publish(topic string, msg []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
}

// PublishScoreUpdate marshals and publishes a score change.
func (b *Broker) PublishScoreUpdate(update ScoreUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		zap.S().Errorf("failed to marshal score update: %v", err)
		return
	}
	b.Publish(TopicScoreboard, data)
}
