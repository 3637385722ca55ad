package gateway

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/seftonlabs/mqttgateway/internal/infrastructure/logging"
	"github.com/seftonlabs/mqttgateway/internal/infrastructure/mqtt"
	"github.com/seftonlabs/mqttgateway/internal/mapping"
)

// Default intervals for the run loop.
const (
	defaultLoopInterval  = 500 * time.Millisecond
	defaultStatsInterval = 30 * time.Second
)

// Transport is the broker surface the gateway depends on.
//
// The MQTT client satisfies this; tests substitute a fake.
type Transport interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Options configures a Gateway.
type Options struct {
	// Name identifies this gateway instance in logs and telemetry.
	Name string

	// Transport is the connected broker client. Required.
	Transport Transport

	// Codec is the initial translation codec. Required.
	Codec *mapping.Codec

	// Interface is the device interface to drive. Required.
	Interface Interface

	// InterfaceParams are passed to Interface.Init.
	InterfaceParams map[string]string

	// Logger for gateway events. Defaults to logging.Default().
	Logger *logging.Logger

	// QoS for subscriptions and publications.
	QoS byte

	// LoopInterval is the period between Interface.Loop calls.
	LoopInterval time.Duration

	// Stats, when set, receives periodic counter snapshots.
	Stats StatsRecorder

	// StatsInterval is the period between snapshots.
	StatsInterval time.Duration

	// QueueCapacity bounds the inbox and outbox. Zero means default.
	QueueCapacity int
}

// Gateway owns the message loop: it decodes inbound traffic onto the
// inbox, drains the outbox through the encoder, and drives the device
// interface.
type Gateway struct {
	name      string
	transport Transport
	iface     Interface
	inbox     *Queue
	outbox    *Queue
	log       *logging.Logger

	codec atomic.Pointer[mapping.Codec]

	qos           byte
	loopInterval  time.Duration
	recorder      StatsRecorder
	statsInterval time.Duration
	stats         Stats

	// subscribed is the topic set currently registered with the
	// transport, adjusted on table swaps.
	subMu      sync.Mutex
	subscribed []string
}

// New creates a gateway and initialises its device interface.
func New(opts Options) (*Gateway, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("gateway: transport is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("gateway: codec is required")
	}
	if opts.Interface == nil {
		return nil, fmt.Errorf("gateway: interface is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.LoopInterval <= 0 {
		opts.LoopInterval = defaultLoopInterval
	}
	if opts.StatsInterval <= 0 {
		opts.StatsInterval = defaultStatsInterval
	}

	g := &Gateway{
		name:          opts.Name,
		transport:     opts.Transport,
		iface:         opts.Interface,
		inbox:         NewQueue(opts.QueueCapacity),
		outbox:        NewQueue(opts.QueueCapacity),
		log:           opts.Logger.With("component", "gateway"),
		qos:           opts.QoS,
		loopInterval:  opts.LoopInterval,
		recorder:      opts.Stats,
		statsInterval: opts.StatsInterval,
	}
	g.codec.Store(opts.Codec)

	if err := g.iface.Init(opts.InterfaceParams, g.inbox, g.outbox); err != nil {
		return nil, fmt.Errorf("gateway: interface init: %w", err)
	}

	return g, nil
}

// Codec returns the codec currently in use.
func (g *Gateway) Codec() *mapping.Codec {
	return g.codec.Load()
}

// ApplyCodec swaps in a new codec and adjusts the broker subscriptions
// to its table's topic set.
//
// The swap is atomic: messages already being decoded finish with the
// codec they started with. Subscription changes are applied topic by
// topic; a failure leaves the remaining topics in place and is
// returned.
func (g *Gateway) ApplyCodec(codec *mapping.Codec) error {
	g.codec.Store(codec)

	g.subMu.Lock()
	defer g.subMu.Unlock()

	next := codec.Table().Topics()

	var firstErr error
	for _, topic := range g.subscribed {
		if containsTopic(next, topic) {
			continue
		}
		if err := g.transport.Unsubscribe(topic); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unsubscribe %q: %w", topic, err)
		}
	}
	for _, topic := range next {
		if containsTopic(g.subscribed, topic) {
			continue
		}
		if err := g.transport.Subscribe(topic, g.qos, g.handleInbound); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("subscribe %q: %w", topic, err)
		}
	}
	g.subscribed = next

	return firstErr
}

// Run subscribes to the table's topics and drives the message loop
// until ctx is cancelled.
//
// Each tick drains the outbox through the encoder and then calls the
// interface's Loop. Inbound messages are decoded as they arrive on the
// transport's handler goroutines.
func (g *Gateway) Run(ctx context.Context) error {
	if err := g.subscribeAll(); err != nil {
		return err
	}

	g.log.Info("gateway running",
		"gateway", g.name,
		"root", g.Codec().Table().Root(),
		"loop_interval", g.loopInterval)

	loop := time.NewTicker(g.loopInterval)
	defer loop.Stop()

	// A nil channel blocks forever, disabling the stats branch when no
	// recorder is configured.
	var statsC <-chan time.Time
	if g.recorder != nil {
		statsTicker := time.NewTicker(g.statsInterval)
		defer statsTicker.Stop()
		statsC = statsTicker.C
	}

	for {
		select {
		case <-ctx.Done():
			g.drainOutbox()
			g.flushStats()
			g.log.Info("gateway stopped", "gateway", g.name)
			return nil
		case <-loop.C:
			g.drainOutbox()
			g.iface.Loop()
		case <-statsC:
			g.flushStats()
		}
	}
}

// subscribeAll registers the initial topic set with the transport.
func (g *Gateway) subscribeAll() error {
	g.subMu.Lock()
	defer g.subMu.Unlock()

	topics := g.Codec().Table().Topics()
	for _, topic := range topics {
		if err := g.transport.Subscribe(topic, g.qos, g.handleInbound); err != nil {
			return fmt.Errorf("gateway: subscribe %q: %w", topic, err)
		}
		g.log.Debug("subscribed", "topic", topic, "qos", g.qos)
	}
	g.subscribed = topics

	return nil
}

// handleInbound decodes one raw message and queues it for the
// interface. Messages that do not translate are counted and dropped;
// the error is never propagated so one bad message cannot disturb the
// stream.
func (g *Gateway) handleInbound(topic string, payload []byte) error {
	msg, err := g.Codec().Decode(topic, payload)
	if err != nil {
		g.stats.decodeFailures.Add(1)
		g.log.Debug("inbound message discarded",
			"topic", topic,
			"error", err)
		return nil
	}

	g.stats.decoded.Add(1)
	g.inbox.Push(msg)

	return nil
}

// drainOutbox encodes and publishes every queued outbound message.
func (g *Gateway) drainOutbox() {
	for {
		msg := g.outbox.Pull()
		if msg == nil {
			return
		}

		topic, payload, err := g.Codec().Encode(msg)
		if err != nil {
			g.stats.encodeFailures.Add(1)
			g.log.Warn("outbound message dropped",
				"message", msg.String(),
				"error", err)
			continue
		}

		if err := g.transport.Publish(topic, payload, g.qos, false); err != nil {
			g.stats.encodeFailures.Add(1)
			g.log.Warn("publish failed",
				"topic", topic,
				"error", err)
			continue
		}

		g.stats.encoded.Add(1)
	}
}

// flushStats sends a counter snapshot to the recorder, if any.
func (g *Gateway) flushStats() {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.WriteMessageStats(g.name, g.stats.Snapshot()); err != nil {
		g.log.Debug("stats write skipped", "error", err)
	}
}

func containsTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}
