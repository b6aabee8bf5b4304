// Package mqtt provides MQTT communication capabilities for the bot.
// It publishes bot events and answers request/response queries from other services.
// A communicator without a broker host is disabled and every call is a no-op.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/PancyCommunity/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrDisabled is returned by Request when no broker is configured
var ErrDisabled = errors.New("mqtt disabled")

// Event kinds published under <prefix>/events/<kind>
const (
	EventRoomCreated  = "room.created"
	EventRoomDeleted  = "room.deleted"
	EventTicketOpened = "ticket.opened"
	EventTicketClosed = "ticket.closed"
	EventWarnAdded    = "warn.added"
)

// Options configures the communicator
type Options struct {
	Host     string
	Port     string
	Username string
	Password string
	ClientID string
	Prefix   string
}

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// Event is the payload of every published bot event
type Event struct {
	Kind      string      `json:"kind"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client           mqtt.Client
	responseHandlers map[string]func(MqttResponse)
	mu               sync.RWMutex
	clientID         string
	prefix           string
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(opts Options) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(opts)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a new MQTT communicator and connects it.
// With an empty host the communicator is disabled.
func NewMqttCommunicator(o Options) *MqttCommunicator {
	if o.Host == "" {
		logger.Warn("MQTT_Host no configurado, MQTT desactivado", "MQTT")
		return newCommunicator(nil, o)
	}

	uniqueID := fmt.Sprintf("%s_%s", o.ClientID, uuid.New().String())

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", o.Host, o.Port)).
		SetClientID(uniqueID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", o.ClientID), "MQTT")
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc := newCommunicator(mqtt.NewClient(opts), o)

	// ConnectRetry keeps trying in the background, so do not block startup on it
	token := mc.client.Connect()
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

func newCommunicator(client mqtt.Client, o Options) *MqttCommunicator {
	prefix := o.Prefix
	if prefix == "" {
		prefix = "pancy"
	}
	return &MqttCommunicator{
		client:           client,
		responseHandlers: make(map[string]func(MqttResponse)),
		clientID:         o.ClientID,
		prefix:           prefix,
	}
}

// Enabled reports whether a broker is configured
func (mc *MqttCommunicator) Enabled() bool {
	return mc != nil && mc.client != nil
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.Enabled() && mc.client.IsConnected()
}

func (mc *MqttCommunicator) requestTopic(topic string) string {
	return fmt.Sprintf("%s/request/%s", mc.prefix, topic)
}

func (mc *MqttCommunicator) responseTopic(topic, correlationID string) string {
	return fmt.Sprintf("%s/response/%s/%s", mc.prefix, topic, correlationID)
}

// EventTopic returns the topic an event kind is published on
func (mc *MqttCommunicator) EventTopic(kind string) string {
	return fmt.Sprintf("%s/events/%s", mc.prefix, kind)
}

// Publish sends a message to a topic
func (mc *MqttCommunicator) Publish(topic string, payload interface{}) error {
	if !mc.Enabled() {
		return nil
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 0, false, jsonData)
	token.Wait()
	return token.Error()
}

// PublishEvent publishes a bot event. Failures are logged, never returned.
func (mc *MqttCommunicator) PublishEvent(kind string, data interface{}) {
	if !mc.Enabled() {
		return
	}

	event := Event{Kind: kind, Timestamp: time.Now().Unix(), Data: data}
	if err := mc.Publish(mc.EventTopic(kind), event); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo publicar el evento %s: %v", kind, err), "MQTT")
	}
}

// Request sends a request and waits for a response
func (mc *MqttCommunicator) Request(topic string, payload interface{}, timeout time.Duration) (interface{}, error) {
	if !mc.Enabled() {
		return nil, ErrDisabled
	}

	correlationID := uuid.New().String()
	requestTopic := mc.requestTopic(topic)
	responseTopic := mc.responseTopic(topic, correlationID)

	responseChan := make(chan MqttResponse, 1)
	errChan := make(chan error, 1)

	// Set up response handler
	mc.mu.Lock()
	mc.responseHandlers[correlationID] = func(response MqttResponse) {
		select {
		case responseChan <- response:
		default:
		}
	}
	mc.mu.Unlock()

	// Clean up handler when done
	defer func() {
		mc.mu.Lock()
		delete(mc.responseHandlers, correlationID)
		mc.mu.Unlock()
		mc.client.Unsubscribe(responseTopic)
	}()

	// Subscribe to response topic
	token := mc.client.Subscribe(responseTopic, 0, func(c mqtt.Client, msg mqtt.Message) {
		var response MqttResponse
		if err := json.Unmarshal(msg.Payload(), &response); err != nil {
			select {
			case errChan <- err:
			default:
			}
			return
		}

		mc.mu.RLock()
		handler, exists := mc.responseHandlers[response.CorrelationID]
		mc.mu.RUnlock()

		if exists {
			handler(response)
		}
	})

	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	// Send request
	request := MqttRequest{
		CorrelationID: correlationID,
		Payload:       payload,
	}

	if err := mc.Publish(requestTopic, request); err != nil {
		return nil, err
	}

	// Wait for response or timeout
	select {
	case response := <-responseChan:
		if response.Error != "" {
			return nil, fmt.Errorf("%s", response.Error)
		}
		return response.Data, nil
	case err := <-errChan:
		return nil, err
	case <-time.After(timeout):
		return nil, fmt.Errorf("la petición a '%s' ha expirado (timeout)", topic)
	}
}

// RequestHandler is a function type for handling MQTT requests
type RequestHandler func(payload map[string]interface{}) (interface{}, error)

// On registers a handler for a request topic
func (mc *MqttCommunicator) On(requestTopic string, callback RequestHandler) {
	if !mc.Enabled() {
		return
	}

	topic := mc.requestTopic(requestTopic)
	requestPrefix := mc.requestTopic("")

	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		var request MqttRequest
		if err := json.Unmarshal(msg.Payload(), &request); err != nil {
			logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
			return
		}

		actualTopic := strings.TrimPrefix(msg.Topic(), requestPrefix)
		responseTopic := mc.responseTopic(actualTopic, request.CorrelationID)

		payloadMap := make(map[string]interface{})
		if pm, ok := request.Payload.(map[string]interface{}); ok {
			payloadMap = pm
		}
		payloadMap["_topic"] = actualTopic

		response := MqttResponse{CorrelationID: request.CorrelationID}
		data, err := callback(payloadMap)
		if err != nil {
			response.Error = err.Error()
		} else {
			response.Data = data
		}

		if err := mc.Publish(responseTopic, response); err != nil {
			logger.Error(fmt.Sprintf("Error respondiendo a %s: %v", responseTopic, err), "MQTT")
		}
	})

	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to topic %s: %v", topic, token.Error()), "MQTT")
	}
}

// Subscribe subscribes to a topic with a message handler
func (mc *MqttCommunicator) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	if !mc.Enabled() {
		return ErrDisabled
	}
	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Unsubscribe unsubscribes from a topic
func (mc *MqttCommunicator) Unsubscribe(topic string) error {
	if !mc.Enabled() {
		return nil
	}
	token := mc.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}

	return len(patternParts) == len(topicParts)
}
