// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

// Package mqttsn provides an MQTT-SN v1.2 client for constrained nodes
// publishing and subscribing through a gateway over a UDP transport, such
// as an IPv6/6LoWPAN mesh. Application data is exchanged at QoS 0; control
// requests are acknowledged and retransmitted.
package mqttsn

import (
	"bytes"
	"fmt"
	"net/netip"
	"os"
	"sync"

	"log/slog"

	"github.com/rs/xid"

	"github.com/fogline/mqttsn/packets"
	"github.com/fogline/mqttsn/transport"
)

const (
	Version = "0.4.1" // the current client version.

	// keepAliveDelay is the number of seconds before the negotiated
	// keep-alive at which the client proactively pings the gateway.
	keepAliveDelay = 5

	defaultKeepAlive          uint16 = 60 // seconds
	defaultGatewayTimeout     uint16 = 10 // seconds
	defaultMaxPendingMessages        = 16
)

// Config contains the per-session connection parameters passed to Connect.
// It is immutable for the lifetime of the session.
type Config struct {

	// GatewayAddress is the unicast address of the gateway.
	GatewayAddress netip.Addr

	// GatewayPort is the UDP port of the gateway.
	GatewayPort uint16

	// ClientID identifies this client to the gateway. A unique id is
	// minted when empty.
	ClientID string

	// KeepAlive is the session heartbeat interval in seconds.
	KeepAlive uint16

	// GatewayTimeout is the number of seconds to wait for a gateway reply
	// which gates session liveness before declaring the session lost.
	GatewayTimeout uint16

	// CleanSession requests that the gateway discards any prior
	// subscriptions held for this client id.
	CleanSession bool
}

// ensureDefaults ensures the session config has sane default values.
func (cf *Config) ensureDefaults() {
	if cf.ClientID == "" {
		cf.ClientID = xid.New().String()
	}

	if cf.KeepAlive == 0 {
		cf.KeepAlive = defaultKeepAlive
	}

	if cf.GatewayTimeout == 0 {
		cf.GatewayTimeout = defaultGatewayTimeout
	}
}

// Options contains configurable options for the client.
type Options struct {

	// ClientID seeds Config.ClientID when sessions are built from a
	// config file (see OpenConfigFile).
	ClientID string `yaml:"client_id" json:"client_id"`

	// GatewayAddress is the textual gateway address for file-based
	// configuration.
	GatewayAddress string `yaml:"gateway_address" json:"gateway_address"`

	// GatewayPort is the gateway UDP port for file-based configuration.
	GatewayPort uint16 `yaml:"gateway_port" json:"gateway_port"`

	// KeepAlive is the session heartbeat interval in seconds.
	KeepAlive uint16 `yaml:"keep_alive" json:"keep_alive"`

	// GatewayTimeout is the gateway liveness window in seconds.
	GatewayTimeout uint16 `yaml:"gateway_timeout" json:"gateway_timeout"`

	// CleanSession requests a clean session on connect.
	CleanSession bool `yaml:"clean_session" json:"clean_session"`

	// MaxPendingMessages caps the combined depth of the three pending
	// request queues. Enqueues beyond the cap fail with ErrNoBuffers.
	MaxPendingMessages int `yaml:"max_pending_messages" json:"max_pending_messages"`

	// MaxRetransmit is the number of times an unacknowledged request is
	// resent from its stored frame copy before its callback receives a
	// timeout. Zero surfaces the timeout on first expiry.
	MaxRetransmit uint8 `yaml:"max_retransmit" json:"max_retransmit"`

	// Logger specifies a custom configured implementation of log/slog to
	// override the client's default logger configuration.
	Logger *slog.Logger `yaml:"-" json:"-"`

	// Socket overrides the UDP socket implementation, primarily for tests.
	Socket transport.Socket `yaml:"-" json:"-"`

	// Clock overrides the monotonic millisecond source, primarily for tests.
	Clock Clock `yaml:"-" json:"-"`
}

// ensureDefaults ensures that the client starts with sane default values,
// if none are provided.
func (o *Options) ensureDefaults() {
	if o.MaxPendingMessages == 0 {
		o.MaxPendingMessages = defaultMaxPendingMessages
	}

	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	if o.Socket == nil {
		o.Socket = transport.NewUDP()
	}

	if o.Clock == nil {
		o.Clock = newSystemClock()
	}
}

// SessionConfig builds a Config from the file-configurable option fields.
func (o *Options) SessionConfig() (Config, error) {
	addr, err := netip.ParseAddr(o.GatewayAddress)
	if err != nil {
		return Config{}, fmt.Errorf("failed parsing gateway address: %w", err)
	}

	return Config{
		GatewayAddress: addr,
		GatewayPort:    o.GatewayPort,
		ClientID:       o.ClientID,
		KeepAlive:      o.KeepAlive,
		GatewayTimeout: o.GatewayTimeout,
		CleanSession:   o.CleanSession,
	}, nil
}

// callbacks holds the user callbacks registered on the client.
type callbacks struct {
	connected       ConnectedFn
	publishReceived PublishReceivedFn
	advertise       AdvertiseFn
	searchGw        SearchGwFn
	published       PublishedFn
	disconnected    DisconnectedFn
}

// Client is an MQTT-SN client holding a single session with a gateway. It
// should be created with mqttsn.New() in order to ensure all the internal
// fields are correctly populated.
type Client struct {
	mu sync.Mutex

	Options *Options     // configurable client options
	Log     *slog.Logger // minimal no-alloc logger

	socket transport.Socket
	clock  Clock
	config Config

	state               ClientState
	packetID            uint16 // strictly monotonic, wraps past zero
	pingReqTime         uint32 // deadline (ms) for the next PINGREQ, 0 when disarmed
	gwTimeout           uint32 // deadline (ms) for a liveness-gating reply, 0 when disarmed
	disconnectRequested bool
	sleepRequested      bool

	subscribeQueue   *pendingQueue[SubscribeFn]
	registerQueue    *pendingQueue[RegisterFn]
	unsubscribeQueue *pendingQueue[UnsubscribeFn]

	on       callbacks
	deferred []func() // callbacks to fire once the lock is released
}

// New returns a new instance of an MQTT-SN client. Optional parameters can
// be specified to override some default settings (see Options).
func New(opts *Options) *Client {
	if opts == nil {
		opts = new(Options)
	}

	opts.ensureDefaults()

	c := &Client{
		Options:  opts,
		Log:      opts.Logger,
		socket:   opts.Socket,
		clock:    opts.Clock,
		state:    StateDisconnected,
		packetID: 1,
	}

	c.subscribeQueue = newPendingQueue(func(cb SubscribeFn) {
		if cb != nil {
			c.deferCallback(func() { cb(packets.Timeout, 0) })
		}
	})
	c.registerQueue = newPendingQueue(func(cb RegisterFn) {
		if cb != nil {
			c.deferCallback(func() { cb(packets.Timeout, 0) })
		}
	})
	c.unsubscribeQueue = newPendingQueue(func(cb UnsubscribeFn) {
		if cb != nil {
			c.deferCallback(func() { cb(packets.Timeout) })
		}
	})

	return c
}

// deferCallback queues a user callback to run after the client lock is
// released, so callbacks may safely call back into the client.
func (c *Client) deferCallback(fn func()) {
	c.deferred = append(c.deferred, fn)
}

// unlockAndFire releases the client lock and fires any deferred callbacks
// in the order they were queued.
func (c *Client) unlockAndFire() {
	fns := c.deferred
	c.deferred = nil
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Start opens the socket and binds it to a local UDP port, after which
// inbound datagrams are dispatched to the session.
func (c *Client) Start(port uint16) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if err := c.socket.Init(c.Log); err != nil {
		return err
	}

	if err := c.socket.Open(c.receive); err != nil {
		return err
	}

	if err := c.socket.Bind(port); err != nil {
		return err
	}

	c.Log.Info("client started", "port", port)
	return nil
}

// Stop closes the socket and ends the session. Pending requests receive a
// timeout callback; the disconnected callback fires with DisconnectClient
// if a session was in progress.
func (c *Client) Stop() error {
	c.mu.Lock()
	defer c.unlockAndFire()

	err := c.socket.Close()

	if c.state != StateDisconnected && c.state != StateLost {
		c.onDisconnected()
		c.state = StateDisconnected
		if cb := c.on.disconnected; cb != nil {
			c.deferCallback(func() { cb(DisconnectClient) })
		}
	}

	return err
}

// State returns the current session state.
func (c *Client) State() ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect stores the session config and sends a CONNECT to the gateway.
// The session becomes Active when the CONNACK arrives; until then the
// gateway liveness timer runs.
func (c *Client) Connect(config Config) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state == StateActive {
		return ErrInvalidState
	}

	config.ensureDefaults()
	c.config = config

	data, err := c.encode(&packets.ConnectPacket{
		CleanSession: config.CleanSession,
		Duration:     config.KeepAlive,
		ClientID:     config.ClientID,
	})
	if err != nil {
		return err
	}

	if err := c.sendToGateway(data); err != nil {
		return err
	}

	now := c.clock.Now()
	c.disconnectRequested = false
	c.sleepRequested = false
	c.gwTimeout = now + c.gatewayTimeoutMillis()
	c.pingReqTime = now + uint32(config.KeepAlive)*1000

	c.Log.Info("connecting", "gateway", config.GatewayAddress, "port", config.GatewayPort, "client_id", config.ClientID)
	return nil
}

// Subscribe sends a SUBSCRIBE for a long topic name and tracks it until
// the SUBACK arrives or the retransmission window closes. Only QoS 0 is
// supported.
func (c *Client) Subscribe(topic string, qos QoS, cb SubscribeFn) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state != StateActive {
		return ErrInvalidState
	}

	if qos != Qos0 {
		return ErrNotImplemented
	}

	if c.totalPending() >= c.Options.MaxPendingMessages {
		return ErrNoBuffers
	}

	id := c.nextPacketID()
	data, err := c.encode(&packets.SubscribePacket{
		QoS:         byte(qos),
		TopicIDType: packets.TopicIDTypeNormal,
		PacketID:    id,
		TopicName:   topic,
	})
	if err != nil {
		return err
	}

	if err := c.sendToGateway(data); err != nil {
		return err
	}

	return c.subscribeQueue.enqueue(newPending(c, id, cb, data))
}

// Register requests a topic id for a topic name, to publish with later.
func (c *Client) Register(topic string, cb RegisterFn) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state != StateActive {
		return ErrInvalidState
	}

	if c.totalPending() >= c.Options.MaxPendingMessages {
		return ErrNoBuffers
	}

	id := c.nextPacketID()
	data, err := c.encode(&packets.RegisterPacket{
		PacketID:  id,
		TopicName: topic,
	})
	if err != nil {
		return err
	}

	if err := c.sendToGateway(data); err != nil {
		return err
	}

	return c.registerQueue.enqueue(newPending(c, id, cb, data))
}

// Publish sends an application payload to a previously registered topic
// id. At QoS 0 the message is fire-and-forget: nothing is tracked, and the
// published callback only fires if the gateway reports an error.
func (c *Client) Publish(payload []byte, qos QoS, topicID TopicID) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state != StateActive {
		return ErrInvalidState
	}

	if qos != Qos0 {
		return ErrNotImplemented
	}

	data, err := c.encode(&packets.PublishPacket{
		QoS:         byte(qos),
		TopicIDType: packets.TopicIDTypeNormal,
		TopicID:     uint16(topicID),
		PacketID:    c.nextPacketID(),
		Payload:     payload,
	})
	if err != nil {
		return err
	}

	return c.sendToGateway(data)
}

// Unsubscribe removes the subscription for a topic id and tracks the
// request until the UNSUBACK arrives.
func (c *Client) Unsubscribe(topicID TopicID, cb UnsubscribeFn) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state != StateActive {
		return ErrInvalidState
	}

	if c.totalPending() >= c.Options.MaxPendingMessages {
		return ErrNoBuffers
	}

	id := c.nextPacketID()
	data, err := c.encode(&packets.UnsubscribePacket{
		TopicIDType: packets.TopicIDTypeNormal,
		PacketID:    id,
		TopicID:     uint16(topicID),
	})
	if err != nil {
		return err
	}

	if err := c.sendToGateway(data); err != nil {
		return err
	}

	return c.unsubscribeQueue.enqueue(newPending(c, id, cb, data))
}

// Disconnect asks the gateway to end the session. The session ends when
// the gateway's DISCONNECT arrives or the liveness window closes.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state != StateActive && c.state != StateAwake && c.state != StateAsleep {
		return ErrInvalidState
	}

	data, err := c.encode(&packets.DisconnectPacket{})
	if err != nil {
		return err
	}

	if err := c.sendToGateway(data); err != nil {
		return err
	}

	c.disconnectRequested = true
	c.gwTimeout = c.clock.Now() + c.gatewayTimeoutMillis()
	return nil
}

// Sleep asks the gateway to hold the session and buffer messages for
// duration seconds while the node powers down its radio.
func (c *Client) Sleep(duration uint16) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state != StateActive && c.state != StateAwake && c.state != StateAsleep {
		return ErrInvalidState
	}

	data, err := c.encode(&packets.DisconnectPacket{Duration: duration})
	if err != nil {
		return err
	}

	if err := c.sendToGateway(data); err != nil {
		return err
	}

	c.sleepRequested = true
	c.gwTimeout = c.clock.Now() + c.gatewayTimeoutMillis()
	return nil
}

// Awake transiently wakes a sleeping session so the gateway flushes any
// buffered messages, which arrive before the gateway's PINGRESP. The
// client returns to Asleep when the PINGRESP arrives, or declares the
// session lost after timeout seconds.
func (c *Client) Awake(timeout uint16) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	if c.state != StateAwake && c.state != StateAsleep {
		return ErrInvalidState
	}

	if err := c.pingGateway(); err != nil {
		return err
	}

	c.state = StateAwake
	c.gwTimeout = c.clock.Now() + uint32(timeout)*1000
	return nil
}

// SearchGateway multicasts a SEARCHGW with the given hop radius. Gateways
// (or clients which know one) answer with GWINFO, delivered through the
// search callback.
func (c *Client) SearchGateway(multicast netip.Addr, port uint16, radius uint8) error {
	c.mu.Lock()
	defer c.unlockAndFire()

	data, err := c.encode(&packets.SearchGwPacket{Radius: radius})
	if err != nil {
		return err
	}

	return c.sendMessage(data, multicast, port, radius)
}

// Process drives the session forward and must be called periodically by
// the host, at a cadence of one second or less. It emits the keep-alive
// PINGREQ, detects gateway liveness loss and sweeps the pending queues.
func (c *Client) Process() error {
	c.mu.Lock()
	defer c.unlockAndFire()

	now := c.clock.Now()

	if c.state == StateActive && c.pingReqTime != 0 && c.pingReqTime <= now {
		if err := c.pingGateway(); err != nil {
			return err
		}
		c.gwTimeout = now + c.gatewayTimeoutMillis()
	}

	if c.gwTimeout != 0 && c.gwTimeout <= now {
		c.Log.Warn("gateway timeout", "state", c.state)
		c.onDisconnected()
		c.state = StateLost
		if cb := c.on.disconnected; cb != nil {
			c.deferCallback(func() { cb(DisconnectTimeout) })
		}
	}

	resend := func(data []byte, addr netip.Addr, port uint16) error {
		return c.sendMessage(data, addr, port, 0)
	}

	c.subscribeQueue.handleTick(now, c.Options.MaxRetransmit, resend)
	c.registerQueue.handleTick(now, c.Options.MaxRetransmit, resend)
	c.unsubscribeQueue.handleTick(now, c.Options.MaxRetransmit, resend)

	return nil
}

// SetConnectedCallback sets the callback fired when a CONNACK arrives.
func (c *Client) SetConnectedCallback(cb ConnectedFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on.connected = cb
}

// SetPublishReceivedCallback sets the callback fired for inbound messages.
func (c *Client) SetPublishReceivedCallback(cb PublishReceivedFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on.publishReceived = cb
}

// SetAdvertiseCallback sets the callback fired for gateway advertisements.
func (c *Client) SetAdvertiseCallback(cb AdvertiseFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on.advertise = cb
}

// SetSearchGwCallback sets the callback fired for GWINFO responses.
func (c *Client) SetSearchGwCallback(cb SearchGwFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on.searchGw = cb
}

// SetPublishedCallback sets the callback fired when the gateway reports a
// publish outcome.
func (c *Client) SetPublishedCallback(cb PublishedFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on.published = cb
}

// SetDisconnectedCallback sets the callback fired when the session ends or
// suspends.
func (c *Client) SetDisconnectedCallback(cb DisconnectedFn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.on.disconnected = cb
}

// encode renders a packet into a fresh frame buffer.
func (c *Client) encode(pk packets.Packet) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := pk.Encode(buf); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFailed, err)
	}

	return buf.Bytes(), nil
}

// newPending builds a pending entry for a request frame just sent to the
// gateway, freezing the destination and arming the retransmission window.
func newPending[C any](c *Client, id uint16, cb C, data []byte) *pendingMessage[C] {
	return &pendingMessage[C]{
		addr:     c.config.GatewayAddress,
		port:     c.config.GatewayPort,
		packetID: id,
		created:  c.clock.Now(),
		timeout:  c.gatewayTimeoutMillis(),
		callback: cb,
		data:     data,
	}
}

// sendMessage transmits a frame. Any successful send while Active resets
// the keep-alive timer, since the gateway has just heard from us.
func (c *Client) sendMessage(data []byte, addr netip.Addr, port uint16, hopLimit uint8) error {
	if err := c.socket.SendTo(data, addr, port, hopLimit); err != nil {
		return fmt.Errorf("%w: %s", ErrFailed, err)
	}

	if c.state == StateActive {
		c.pingReqTime = c.clock.Now() + c.keepAliveMillis()
	}

	return nil
}

// sendToGateway transmits a frame to the configured gateway.
func (c *Client) sendToGateway(data []byte) error {
	return c.sendMessage(data, c.config.GatewayAddress, c.config.GatewayPort, 0)
}

// pingGateway sends a PINGREQ carrying the client id.
func (c *Client) pingGateway() error {
	data, err := c.encode(&packets.PingreqPacket{ClientID: c.config.ClientID})
	if err != nil {
		return err
	}

	return c.sendToGateway(data)
}

// nextPacketID allocates the packet id for an outgoing request. Ids are
// stable once allocated, even if the send fails, and wrap past zero.
func (c *Client) nextPacketID() uint16 {
	id := c.packetID
	c.packetID++
	if c.packetID == 0 {
		c.packetID = 1
	}

	return id
}

// totalPending returns the combined depth of the three pending queues.
func (c *Client) totalPending() int {
	return c.subscribeQueue.len() + c.registerQueue.len() + c.unsubscribeQueue.len()
}

// keepAliveMillis returns the keep-alive send cadence in milliseconds,
// keepAliveDelay seconds ahead of the negotiated interval.
func (c *Client) keepAliveMillis() uint32 {
	ka := c.config.KeepAlive
	if ka > keepAliveDelay {
		ka -= keepAliveDelay
	}

	return uint32(ka) * 1000
}

// gatewayTimeoutMillis returns the gateway liveness window in milliseconds.
func (c *Client) gatewayTimeoutMillis() uint32 {
	return uint32(c.config.GatewayTimeout) * 1000
}

// onDisconnected performs session teardown housekeeping: intent flags and
// timers are cleared and every pending request receives a timeout.
func (c *Client) onDisconnected() {
	c.disconnectRequested = false
	c.sleepRequested = false
	c.gwTimeout = 0
	c.pingReqTime = 0

	c.subscribeQueue.forceTimeout()
	c.registerQueue.forceTimeout()
	c.unsubscribeQueue.forceTimeout()
}
