package ingest

import (
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff"
	uuid "github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

// BrokerConfig identifies the durable status queue.
type BrokerConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
	Queue    string

	// Bound on the total time spent retrying the initial dial.
	DialTimeout time.Duration
}

func (c BrokerConfig) URI() string {
	return amqp.URI{
		Scheme:   "amqp",
		Host:     c.Host,
		Port:     c.Port,
		Username: c.User,
		Password: c.Password,
		Vhost:    c.VHost,
	}.String()
}

func (c BrokerConfig) String() string {
	return fmt.Sprintf("amqp://%s@%s/%s queue:%s", c.User, net.JoinHostPort(c.Host, fmt.Sprint(c.Port)), c.VHost, c.Queue)
}

// AMQPSource consumes one durable queue with auto-ack: a message is acknowledged
// on receipt, before the scheduler applies it.
type AMQPSource struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
	closed     chan *amqp.Error
	tag        string
}

// DialAMQP connects, declares the queue and starts consuming. The dial is retried
// with exponential backoff for at most cfg.DialTimeout.
func DialAMQP(cfg BrokerConfig) (*AMQPSource, error) {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = cfg.DialTimeout

	var conn *amqp.Connection
	try := 1
	err := backoff.Retry(func() error {
		var err error
		log.Debugf("Dialing %s, try #%d", cfg, try)
		try++
		conn, err = amqp.Dial(cfg.URI())
		if err != nil {
			log.Warnf("Dial %s failed: %v", cfg, err)
		}
		return err
	}, policy)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", cfg)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "opening channel")
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "declaring queue %s", cfg.Queue)
	}

	tag := "klever-scheduler"
	if id, err := uuid.NewV4(); err == nil {
		tag = tag + "-" + id.String()
	}
	deliveries, err := ch.Consume(cfg.Queue, tag, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "consuming %s", cfg.Queue)
	}
	log.WithFields(log.Fields{"broker": cfg.String(), "consumer": tag}).Info("Consuming status queue")

	return &AMQPSource{
		conn:       conn,
		ch:         ch,
		deliveries: deliveries,
		closed:     conn.NotifyClose(make(chan *amqp.Error, 1)),
		tag:        tag,
	}, nil
}

// NewAMQPSourceFactory dials a fresh connection on every call.
func NewAMQPSourceFactory(cfg BrokerConfig) SourceFactory {
	return func() (Source, error) {
		return DialAMQP(cfg)
	}
}

func (s *AMQPSource) Receive(timeout time.Duration) (string, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case d, ok := <-s.deliveries:
		if !ok {
			return "", false, errors.New("broker closed the delivery channel")
		}
		return string(d.Body), true, nil
	case amqpErr, ok := <-s.closed:
		if !ok || amqpErr == nil {
			return "", false, errors.New("broker connection closed")
		}
		return "", false, errors.Wrap(amqpErr, "broker connection lost")
	case <-timer.C:
		return "", false, nil
	}
}

func (s *AMQPSource) Close() error {
	if s.conn.IsClosed() {
		return nil
	}
	if err := s.ch.Cancel(s.tag, false); err != nil {
		log.Debugf("Cancel consumer %s: %v", s.tag, err)
	}
	return s.conn.Close()
}
