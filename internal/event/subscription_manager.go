package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SubscriptionState is the explicit connection state of the change feed.
type SubscriptionState string

const (
	StateDisconnected SubscriptionState = "disconnected"
	StateConnecting   SubscriptionState = "connecting"
	StateConnected    SubscriptionState = "connected"
	StateBackingOff   SubscriptionState = "backing-off"
	StatePolling      SubscriptionState = "polling"
)

// Feed abstracts the change-feed transport so the manager's reconnection
// policy can be exercised without a broker.
type Feed interface {
	// Connect opens the feed and returns a channel that closes when the
	// feed dies.
	Connect(ctx context.Context) (<-chan ChangeEvent, error)
	Close() error
}

// SubscriptionManagerConfig tunes the single reconnection policy.
type SubscriptionManagerConfig struct {
	BaseBackoff  time.Duration // first retry delay, doubles per attempt
	MaxBackoff   time.Duration // backoff cap
	MaxRetries   int           // retry ceiling before polling fallback
	PollInterval time.Duration // fallback refresh cadence
}

func DefaultSubscriptionManagerConfig() SubscriptionManagerConfig {
	return SubscriptionManagerConfig{
		BaseBackoff:  1 * time.Second,
		MaxBackoff:   30 * time.Second,
		MaxRetries:   5,
		PollInterval: 30 * time.Second,
	}
}

// SubscriptionManager owns the one change-feed connection per process.
// Feed events invoke onEvent; once the retry ceiling is hit the manager
// degrades to calling refresh on a fixed interval, the same function the
// startup fetch uses. Revalidate kicks a reconnect attempt out of the
// polling fallback.
type SubscriptionManager struct {
	feed    Feed
	onEvent func(ChangeEvent)
	refresh func(ctx context.Context)
	cfg     SubscriptionManagerConfig

	mu       sync.Mutex
	state    SubscriptionState
	started  bool
	retryNow chan struct{}
}

func NewSubscriptionManager(feed Feed, cfg SubscriptionManagerConfig, onEvent func(ChangeEvent), refresh func(ctx context.Context)) *SubscriptionManager {
	return &SubscriptionManager{
		feed:     feed,
		onEvent:  onEvent,
		refresh:  refresh,
		cfg:      cfg,
		state:    StateDisconnected,
		retryNow: make(chan struct{}, 1),
	}
}

func (m *SubscriptionManager) State() SubscriptionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *SubscriptionManager) setState(s SubscriptionState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Start runs the subscription loop until ctx is cancelled. Only one loop
// may run per process; a second call is an error.
func (m *SubscriptionManager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("subscription manager already started")
	}
	m.started = true
	m.mu.Unlock()

	go m.run(ctx)
	return nil
}

// Revalidate asks the manager to check its connection. Connected feeds are
// left alone; anything else gets an immediate reconnect attempt.
func (m *SubscriptionManager) Revalidate() {
	if m.State() == StateConnected {
		return
	}
	select {
	case m.retryNow <- struct{}{}:
	default:
	}
}

func (m *SubscriptionManager) run(ctx context.Context) {
	retries := 0
	backoff := m.cfg.BaseBackoff

	for {
		if ctx.Err() != nil {
			m.setState(StateDisconnected)
			return
		}

		m.setState(StateConnecting)
		events, err := m.feed.Connect(ctx)
		if err == nil {
			slog.Info("change feed connected")
			m.setState(StateConnected)
			retries = 0
			backoff = m.cfg.BaseBackoff

			if m.consume(ctx, events) {
				m.setState(StateDisconnected)
				return
			}
			// feed died, fall through to backoff
			err = fmt.Errorf("change feed closed")
		}

		retries++
		slog.Warn("change feed unavailable", "error", err, "attempt", retries)

		if retries > m.cfg.MaxRetries {
			if m.pollUntilRetry(ctx) {
				m.setState(StateDisconnected)
				return
			}
			retries = 0
			backoff = m.cfg.BaseBackoff
			continue
		}

		m.setState(StateBackingOff)
		select {
		case <-ctx.Done():
			m.setState(StateDisconnected)
			return
		case <-m.retryNow:
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > m.cfg.MaxBackoff {
			backoff = m.cfg.MaxBackoff
		}
	}
}

// consume drains feed events until the feed closes or ctx ends. Returns
// true on ctx cancellation.
func (m *SubscriptionManager) consume(ctx context.Context, events <-chan ChangeEvent) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case evt, ok := <-events:
			if !ok {
				return false
			}
			if m.onEvent != nil {
				m.onEvent(evt)
			}
		}
	}
}

// pollUntilRetry runs the fixed-interval refresh fallback until Revalidate
// asks for another connection attempt. Returns true on ctx cancellation.
func (m *SubscriptionManager) pollUntilRetry(ctx context.Context) bool {
	m.setState(StatePolling)
	slog.Warn("change feed retry ceiling reached, falling back to polling", "interval", m.cfg.PollInterval)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return true
		case <-m.retryNow:
			return false
		case <-ticker.C:
			if m.refresh != nil {
				m.refresh(ctx)
			}
		}
	}
}

// RabbitFeed is the production Feed over the shared RabbitMQ queue.
type RabbitFeed struct {
	cfgConn func() (*RabbitMQConnection, error)

	mu   sync.Mutex
	conn *RabbitMQConnection
}

func NewRabbitFeed(dial func() (*RabbitMQConnection, error)) *RabbitFeed {
	return &RabbitFeed{cfgConn: dial}
}

func (f *RabbitFeed) Connect(ctx context.Context) (<-chan ChangeEvent, error) {
	conn, err := f.cfgConn()
	if err != nil {
		return nil, err
	}

	_, err = conn.Channel.QueueDeclare(ChangeFeedQueue, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := conn.Channel.Consume(
		ChangeFeedQueue,
		"",    // consumer tag
		true,  // auto-ack: events are invalidation hints, losing one costs a poll
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	f.mu.Lock()
	f.conn = conn
	f.mu.Unlock()

	out := make(chan ChangeEvent)
	go pumpDeliveries(ctx, msgs, out)

	return out, nil
}

// pumpDeliveries decodes broker deliveries onto out until the context is
// cancelled or the delivery channel closes. The send also honors
// cancellation so a slow reader cannot strand the goroutine.
func pumpDeliveries(ctx context.Context, msgs <-chan amqp.Delivery, out chan<- ChangeEvent) {
	defer close(out)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var evt ChangeEvent
			if err := json.Unmarshal(msg.Body, &evt); err != nil {
				slog.Error("failed to decode change event", "error", err)
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (f *RabbitFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn == nil {
		return nil
	}
	err := f.conn.Close()
	f.conn = nil
	return err
}
