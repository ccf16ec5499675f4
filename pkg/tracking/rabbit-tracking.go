package tracking

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/matst80/inventory-card/pkg/messaging"
)

// RabbitTracking publishes interaction events so other card instances and
// analytics consumers can observe them.
type RabbitTracking struct {
	prefix     string
	connection *amqp.Connection
}

func NewRabbitTracking(url, prefix string) (*RabbitTracking, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if err := messaging.DefineTopic(ch, prefix, messaging.Interaction); err != nil {
		conn.Close()
		return nil, err
	}
	return &RabbitTracking{prefix: prefix, connection: conn}, nil
}

func (t *RabbitTracking) Close() error {
	return t.connection.Close()
}

// Send publishes one interaction event, publish failures are logged and
// dropped, tracking is never allowed to break a render.
func (t *RabbitTracking) Send(event InteractionEvent) {
	if err := messaging.SendChange(t.connection, t.prefix, messaging.Interaction, event); err != nil {
		log.Printf("Failed to publish interaction event: %v", err)
	}
}
