// Package mqtt bridges a simulated device to an MQTT broker.
//
// Bytes published to <prefix><id>/rx go to the device RxD, bytes decoded from
// the device TxD are published to <prefix><id>/tx. Payloads are encoded as
// google.protobuf.BytesValue.
package mqtt

import (
	"context"
	"flag"
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes/wrappers"

	"github.com/robotalks/uart.go/pkg/bridge"
	"github.com/robotalks/uart.go/pkg/device"
	fx "github.com/robotalks/uart.go/pkg/framework"
)

const (
	appID      = "uart.go"
	fallbackID = "uart"
)

// Config defines the broker and the id of the device.
type Config struct {
	URL string
	ID  string
}

var defaultConfig Config

func init() {
	defaultConfig.URL = os.Getenv("UART_MQTT_URL")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.URL, "mqtt", defaultConfig.URL, "MQTT broker URL, e.g. mqtt://host:1883/prefix")
	flag.StringVar(&defaultConfig.ID, "mqtt-id", defaultConfig.ID, "Device id in MQTT topics, machine id by default.")
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Enabled tells if a broker is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// NewBridge creates the Bridge.
func (c *Config) NewBridge() (*Bridge, error) {
	q, err := NewQueueFromURL(c.URL)
	if err != nil {
		return nil, err
	}
	id := c.ID
	if id == "" {
		id = DefaultID()
	}
	return &Bridge{Queue: q, ID: id}, nil
}

// DefaultID derives the device id from the machine id.
func DefaultID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return fallbackID
	}
	return id
}

// RxTopic is where bytes for the device RxD are published.
func RxTopic(id string) string {
	return id + "/rx"
}

// TxTopic is where bytes decoded from the device TxD are published.
func TxTopic(id string) string {
	return id + "/tx"
}

// EncodePayload encodes bytes as a message payload.
func EncodePayload(p []byte) ([]byte, error) {
	return proto.Marshal(&wrappers.BytesValue{Value: p})
}

// DecodePayload decodes bytes from a message payload.
func DecodePayload(payload []byte) ([]byte, error) {
	var val wrappers.BytesValue
	if err := proto.Unmarshal(payload, &val); err != nil {
		return nil, err
	}
	return val.Value, nil
}

// Bridge connects a Device to MQTT topics.
type Bridge struct {
	Queue *Queue
	ID    string
}

// Name implements Named.
func (b *Bridge) Name() string {
	return "mqtt:" + b.ID
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	loop := fx.LoopCtlFrom(ctx)
	if loop == nil {
		return bridge.ErrNoLoop
	}
	b.Queue.Sub(RxTopic(b.ID), b.receiver(loop))
	defer b.Queue.Close()
	token := b.Queue.Connect()
	if token.Wait(); token.Error() != nil {
		return token.Error()
	}
	glog.Infof("%s: %s -> RxD, TxD -> %s", b.Name(),
		b.Queue.TopicPrefix+RxTopic(b.ID), b.Queue.TopicPrefix+TxTopic(b.ID))
	<-ctx.Done()
	return ctx.Err()
}

func (b *Bridge) receiver(loop fx.LoopControl) Handler {
	return func(topic string, payload []byte) {
		data, err := DecodePayload(payload)
		if err != nil {
			glog.Warningf("%s: bad payload on %q: %v", b.Name(), topic, err)
			return
		}
		if len(data) == 0 {
			return
		}
		loop.PostMessage(&device.InputMsg{Data: data})
		loop.TriggerNext()
	}
}

// HandleBytes implements device.ByteHandler.
func (b *Bridge) HandleBytes(_ context.Context, p []byte) error {
	payload, err := EncodePayload(p)
	if err != nil {
		return err
	}
	token := b.Queue.Pub(TxTopic(b.ID), payload)
	token.Wait()
	return token.Error()
}
