package kafka

import (
	"errors"
	"time"

	"github.com/IBM/sarama"
)

const (
	BorrowTopic = "borrows"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

// Enabled reports whether a broker list was configured. Event publishing
// is optional; without brokers the service runs standalone.
func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

func NewSyncProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func CreateTopics(cfg Config) error {
	admin, err := sarama.NewClusterAdmin(cfg.Addrs, sarama.NewConfig())
	if err != nil {
		return err
	}
	defer admin.Close() //nolint:errcheck

	err = admin.CreateTopic(BorrowTopic, &sarama.TopicDetail{
		NumPartitions:     1,
		ReplicationFactor: 1,
	}, false)
	if err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
		return err
	}
	return nil
}

type EventType string

const (
	EventBorrow EventType = "BORROW"
	EventReturn EventType = "RETURN"
)

// Event is the record published to BorrowTopic after a borrow or return
// commits. Consumed by the analytics pipeline, which is outside this service.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	BorrowID  int       `json:"borrowID"`
	BookID    int       `json:"bookID"`
	ReaderID  int       `json:"readerID"`
	Timestamp time.Time `json:"timestamp"`
}
