package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/PassesApp/internal/config"
	"github.com/GoArmGo/PassesApp/internal/messaging/payloads"
)

// Client представляет собой клиент RabbitMQ
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient создает и инициализирует новый клиент RabbitMQ
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// Объявление очереди идемпотентно: очередь создаётся, если её нет.
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName, // name
		true,                           // durable - очередь переживает перезапуск RabbitMQ
		false,                          // delete when unused
		false,                          // exclusive
		false,                          // no-wait
		nil,                            // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}

	logger.Info("connected to RabbitMQ", "queue", q.Name, "messages", q.Messages)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   q,
		logger:  logger,
	}, nil
}

// Close закрывает соединение и канал RabbitMQ
func (c *Client) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ channel", "error", err)
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing RabbitMQ connection", "error", err)
			return err
		}
	}
	return nil
}

// PublishPassSubmitted публикует событие о принятом перевале в очередь.
// Реализует интерфейс ports.SubmissionPublisher.
func (c *Client) PublishPassSubmitted(ctx context.Context, payload payloads.PassSubmittedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload to JSON: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}

	c.logger.Info("pass submitted event published", "queue", c.queue.Name, "pass_id", payload.PassID)
	return nil
}

// StartConsumingPassSubmitted начинает потребление событий из очереди.
// Реализует интерфейс ports.SubmissionConsumer.
func (c *Client) StartConsumingPassSubmitted(ctx context.Context, handler func(context.Context, payloads.PassSubmittedPayload) error) error {
	msgs, err := c.channel.Consume(
		c.queue.Name, // queue
		"",           // consumer
		false,        // auto-ack (подтверждаем вручную)
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consumer registered, waiting for messages", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("RabbitMQ channel closed, stopping consumer")
					return
				}

				var payload payloads.PassSubmittedPayload
				if err := json.Unmarshal(msg.Body, &payload); err != nil {
					c.logger.Error("failed to unmarshal message", "error", err, "body", string(msg.Body))
					// Плохой формат сообщения: отклоняем без возврата в очередь,
					// иначе зациклимся на нём навсегда.
					if err := msg.Nack(false, false); err != nil {
						c.logger.Error("failed to nack malformed message", "error", err)
					}
					continue
				}

				if err := handler(ctx, payload); err != nil {
					c.logger.Error("failed to process message", "pass_id", payload.PassID, "error", err)
					// Обработка не удалась — возвращаем событие в очередь.
					if err := msg.Nack(false, true); err != nil {
						c.logger.Error("failed to nack message", "error", err)
					}
				} else {
					if err := msg.Ack(false); err != nil {
						c.logger.Error("failed to ack message", "error", err)
					}
				}
			case <-ctx.Done():
				c.logger.Info("context cancelled, stopping RabbitMQ consumer")
				return
			}
		}
	}()

	return nil
}
