package messaging

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareBindAndConsume binds an exclusive queue to the topic exchange and
// starts consuming from it. Each card service instance gets its own queue, so
// every instance sees every event.
func DeclareBindAndConsume(ch *amqp.Channel, prefix string, topic ChangeTopic) (<-chan amqp.Delivery, error) {
	name := getName(prefix, topic)
	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, err
	}
	if err := ch.QueueBind(q.Name, name, name, false, nil); err != nil {
		return nil, err
	}
	return ch.Consume(q.Name, "", false, false, false, false, nil)
}

// ListenToTopic consumes a topic in the background. A handler error rejects
// the delivery and consumption continues, one bad event must not stop the
// card from following further entity changes.
func ListenToTopic(ch *amqp.Channel, prefix string, topic ChangeTopic, handler func(amqp.Delivery) error) error {
	deliveries, err := DeclareBindAndConsume(ch, prefix, topic)
	if err != nil {
		return err
	}

	go func() {
		defer ch.Close()
		for d := range deliveries {
			if err := handler(d); err != nil {
				log.Printf("Error processing %s event: %v", topic, err)
				d.Reject(false)
				continue
			}
			d.Ack(false)
		}
	}()
	return nil
}
