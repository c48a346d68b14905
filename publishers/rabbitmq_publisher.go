package publishers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Action indica qué escritura generó un PropertyMessage
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// PropertyMessage es el mensaje que va a la cola de propiedades.
// El indexador de búsqueda lee action y property_id y busca el resto.
type PropertyMessage struct {
	EventID    string `json:"event_id"`
	Action     Action `json:"action"`
	PropertyID string `json:"property_id"`
	OccurredAt string `json:"occurred_at"`
}

// NewPropertyMessage genera un event id nuevo
func NewPropertyMessage(action Action, propertyID uint, at time.Time) PropertyMessage {
	return PropertyMessage{
		EventID:    uuid.NewString(),
		Action:     action,
		PropertyID: strconv.FormatUint(uint64(propertyID), 10),
		OccurredAt: at.UTC().Format(time.RFC3339Nano),
	}
}

// EventPublisher avisa de las escrituras confirmadas
type EventPublisher interface {
	Publish(ctx context.Context, msg PropertyMessage) error
	Close() error
}

// RabbitMQPublisher publica mensajes persistentes en una cola durable del
// exchange por defecto. Comparte un único channel protegido por un mutex.
type RabbitMQPublisher struct {
	mu         sync.Mutex
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
}

func NewRabbitMQPublisher(rabbitURL, queueName string) (*RabbitMQPublisher, error) {
	log.Printf("Connecting to RabbitMQ")

	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if queueName == "" {
		queueName = "properties_queue"
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // borrar cuando no se use
		false, // exclusiva
		false, // no esperar
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Printf("Queue '%s' declared successfully", queueName)

	return &RabbitMQPublisher{
		connection: conn,
		channel:    ch,
		queueName:  queueName,
	}, nil
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, msg PropertyMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish(
		"",          // exchange por defecto
		p.queueName, // routing key
		false,       // obligatorio
		false,       // inmediato
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.EventID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s for property %s: %w", msg.Action, msg.PropertyID, err)
	}
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing channel: %w", err))
		}
	}
	if p.connection != nil {
		if err := p.connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ publisher: %v", errs)
	}

	log.Printf("RabbitMQ publisher closed successfully")
	return nil
}

// NoopPublisher descarta todos los mensajes
// Se usa cuando RabbitMQ no está configurado
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, PropertyMessage) error { return nil }

func (NoopPublisher) Close() error { return nil }
