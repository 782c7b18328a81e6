package handler

import (
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/pkg/kafka"
	"github.com/Astemirdum/bookcase/pkg/metrics"
)

// Activity publishes reading events to Kafka. A nil *Activity, or one
// without a producer, drops every event.
type Activity struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.Logger
	now      func() time.Time
}

func NewActivity(producer sarama.SyncProducer, topic string, log *zap.Logger) *Activity {
	if topic == "" {
		topic = kafka.ActivityTopic
	}
	return &Activity{
		producer: producer,
		topic:    topic,
		log:      log.Named("activity"),
		now:      time.Now,
	}
}

// Publish is synchronous; failures are logged and counted, never returned.
func (a *Activity) Publish(ev kafka.EventActivity) {
	if a == nil || a.producer == nil {
		return
	}
	ev.Timestamp = a.now().UTC()
	data, err := json.Marshal(ev)
	if err == nil {
		_, _, err = a.producer.SendMessage(&sarama.ProducerMessage{
			Topic: a.topic,
			Key:   sarama.StringEncoder(strconv.Itoa(ev.UserID)),
			Value: sarama.ByteEncoder(data),
		})
	}
	metrics.ObserveActivity(string(ev.Type), err)
	if err != nil {
		a.log.Warn("publish activity", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}
