// Package mqtt puente opcional con el broker de la planta: publica cada cambio de
// estado de la estación y recibe eventos de los lectores HID.
//
// Tópicos:
//
//	{prefix}/{n}/status  estado actual (retenido, QoS 1)
//	{prefix}/{n}/hid     eventos {"name": "...", "string": "..."} de los lectores
package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	MQTT "github.com/eclipse/paho.mqtt.golang"

	"github.com/jhoicas/workbench-api/internal/application/dto"
	"github.com/jhoicas/workbench-api/internal/application/hid"
	"github.com/jhoicas/workbench-api/internal/application/workbench"
	"github.com/jhoicas/workbench-api/pkg/broadcast"
	"github.com/jhoicas/workbench-api/pkg/logger"
)

const publishTimeout = 5 * time.Second

// Config conexión al broker.
type Config struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Workbench   int
}

// EventHandler destino de los eventos HID recibidos (hid.Dispatcher.Handle).
type EventHandler func(ctx context.Context, ev hid.Event) error

// Client subconjunto de MQTT.Client que usa el puente.
type Client interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) MQTT.Token
	Disconnect(quiesce uint)
}

// Bridge une la estación con el broker.
type Bridge struct {
	client      Client
	statusTopic string
	hidTopic    string
	log         *logger.Logger
}

// NewBridge puente sobre un cliente ya conectado (tests o conexión propia).
func NewBridge(client Client, cfg Config, log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.Nop()
	}
	base := fmt.Sprintf("%s/%d", cfg.TopicPrefix, cfg.Workbench)
	return &Bridge{
		client:      client,
		statusTopic: base + "/status",
		hidTopic:    base + "/hid",
		log:         log.Component("mqtt"),
	}
}

// Connect abre la conexión con reconexión automática. La suscripción a eventos HID
// se renueva en cada reconexión.
func Connect(cfg Config, handle EventHandler, log *logger.Logger) (*Bridge, error) {
	b := NewBridge(nil, cfg, log)

	opts := MQTT.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(c MQTT.Client) {
		b.log.Info().Str("client_id", cfg.ClientID).Msg("conectado al broker MQTT")
		if handle == nil {
			return
		}
		if token := c.Subscribe(b.hidTopic, 1, b.onHIDMessage(handle)); token.Wait() && token.Error() != nil {
			b.log.Error().Err(token.Error()).Str("topic", b.hidTopic).Msg("no se pudo suscribir a eventos HID")
		}
	})
	opts.SetConnectionLostHandler(func(_ MQTT.Client, err error) {
		b.log.Warn().Err(err).Msg("conexión MQTT perdida")
	})

	client := MQTT.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(15*time.Second) {
		// SetConnectRetry sigue intentando en segundo plano
		b.log.Warn().Str("broker", cfg.Broker).Msg("broker MQTT no disponible todavía")
	} else if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: conectar a %s: %w", cfg.Broker, err)
	}
	b.client = client
	return b, nil
}

// HandleHIDPayload decodifica y despacha un evento HID.
func (b *Bridge) HandleHIDPayload(ctx context.Context, payload []byte, handle EventHandler) error {
	var ev dto.HidEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("mqtt: evento HID inválido: %w", err)
	}
	return handle(ctx, hid.Event{Sender: ev.Name, String: ev.String})
}

func (b *Bridge) onHIDMessage(handle EventHandler) MQTT.MessageHandler {
	return func(_ MQTT.Client, msg MQTT.Message) {
		// el handler de paho no debe bloquear la lectura del socket
		go func(payload []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := b.HandleHIDPayload(ctx, payload, handle); err != nil {
				b.log.Error().Err(err).Str("topic", msg.Topic()).Msg("evento HID rechazado")
			}
		}(msg.Payload())
	}
}

// PublishStatus publica el estado como mensaje retenido.
func (b *Bridge) PublishStatus(st workbench.Status) error {
	payload, err := json.Marshal(dto.FromStatus(st))
	if err != nil {
		return err
	}
	token := b.client.Publish(b.statusTopic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: timeout publicando en %s", b.statusTopic)
	}
	return token.Error()
}

// RunStatus publica la instantánea inicial y luego cada cambio hasta que ctx se
// cancele o se cierre la suscripción. Cierra la suscripción al salir.
func (b *Bridge) RunStatus(ctx context.Context, initial workbench.Status, sub *broadcast.Subscription[workbench.Status]) error {
	defer sub.Close()
	st := initial
	for {
		if err := b.PublishStatus(st); err != nil {
			b.log.Warn().Err(err).Msg("no se pudo publicar el estado")
		}
		next, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, broadcast.ErrClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		st = next
	}
}

// Check para el healthcheck de disponibilidad.
func (b *Bridge) Check() error {
	if b.client == nil || !b.client.IsConnectionOpen() {
		return errors.New("mqtt: sin conexión al broker")
	}
	return nil
}

// Close desconecta esperando hasta 250 ms a que salgan los mensajes pendientes.
func (b *Bridge) Close() {
	if b.client != nil {
		b.client.Disconnect(250)
	}
}
