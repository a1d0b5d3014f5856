// Package realtime delivers server-push row changes into the store. The
// store only sees decoded events, so the transport (websocket here, push
// notifications or polling elsewhere) stays pluggable.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	ws "github.com/coder/websocket"

	"github.com/dotlabs/dot-agent/internal/logger"
	"github.com/dotlabs/dot-agent/internal/models"
)

const pingInterval = 30 * time.Second

// Event is one pushed row change, scoped server-side to the connected user.
type Event struct {
	Table  string          `json:"table"`
	Action string          `json:"action"` // "insert", "update", "delete"
	Record json.RawMessage `json:"record"`
}

// Handler consumes decoded events.
type Handler interface {
	HandleRealtime(ev Event)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ev Event)

func (f HandlerFunc) HandleRealtime(ev Event) { f(ev) }

// SubscriptionSink receives pushed subscription rows. The store implements
// it.
type SubscriptionSink interface {
	ApplySubscriptionPush(sub models.Subscription)
}

// SubscriptionHandler routes subscription-table events into the sink and
// drops everything else.
func SubscriptionHandler(sink SubscriptionSink, log logger.Logger) Handler {
	return HandlerFunc(func(ev Event) {
		if ev.Table != "subscriptions" || len(ev.Record) == 0 {
			return
		}
		var sub models.Subscription
		if err := json.Unmarshal(ev.Record, &sub); err != nil {
			log.Warn("dropping malformed subscription push", logger.Err(err))
			return
		}
		sink.ApplySubscriptionPush(sub)
	})
}

// Subscriber maintains one websocket connection scoped to a user id and
// forwards decoded events to its handler. It does not reconnect on its own;
// the supervisor restarts Run after a failure.
type Subscriber struct {
	endpoint string
	userID   string
	handler  Handler
	log      logger.Logger
}

// NewSubscriber creates a subscriber for the given push endpoint.
func NewSubscriber(endpoint, userID string, handler Handler, log logger.Logger) *Subscriber {
	return &Subscriber{
		endpoint: endpoint,
		userID:   userID,
		handler:  handler,
		log:      log,
	}
}

// Run dials the endpoint and pumps events until the connection drops or ctx
// is done.
func (s *Subscriber) Run(ctx context.Context) error {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return fmt.Errorf("realtime: parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("user_id", s.userID)
	u.RawQuery = q.Encode()

	conn, _, err := ws.Dial(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("realtime: dialing %s: %w", u.Host, err)
	}
	defer conn.Close(ws.StatusNormalClosure, "shutting down")

	s.log.Info("realtime channel connected", logger.String("endpoint", u.Host))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.pingLoop(ctx, conn)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("realtime: read: %w", err)
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			s.log.Warn("dropping malformed realtime event", logger.Err(err))
			continue
		}
		s.handler.HandleRealtime(ev)
	}
}

// pingLoop keeps the connection alive and detects stale peers.
func (s *Subscriber) pingLoop(ctx context.Context, conn *ws.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		}
	}
}
