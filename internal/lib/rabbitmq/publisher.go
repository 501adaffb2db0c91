package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// CleanupMessage — задание на удаление медиа-объекта, на который
// больше не ссылается ни один пользователь.
type CleanupMessage struct {
	AvatarID    string    `json:"avatar_id"`
	RequestedAt time.Time `json:"requested_at"`
}

// Publisher публикует задания очистки в exchange медиа.
type Publisher struct {
	ch *amqp.Channel
}

// NewPublisher создает Publisher поверх открытого канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishAvatarCleanup ставит в очередь задание на удаление старого аватара.
func (p *Publisher) PublishAvatarCleanup(avatarID string) error {
	const op = "rabbitmq.PublishAvatarCleanup"
	body, err := json.Marshal(CleanupMessage{
		AvatarID:    avatarID,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		MediaExchange,
		CleanupRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
