//go:build integration

package testutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueName — "<base>-<unix nanos>", годится и для топика, и для группы.
func UniqueName(base string) string {
	return base + "-" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

// CreateTopic — создаёт топик через контроллер кластера и ждёт его в метаданных.
func CreateTopic(ctx context.Context, broker, topic string, partitions int) error {
	addr := hostPort(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return err
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return err
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: partitions, ReplicationFactor: 1})
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return err
	}

	for deadline := time.Now().Add(5 * time.Second); ; {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		parts, perr := conn.ReadPartitions(topic)
		if perr == nil && len(parts) == partitions {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("topic %q not ready: %v", topic, perr)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Produce — пишет сырые значения в партицию 0 топика.
func Produce(ctx context.Context, brokers []string, topic string, values ...[]byte) error {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()

	msgs := make([]kafka.Message, 0, len(values))
	for _, v := range values {
		msgs = append(msgs, kafka.Message{Value: v})
	}
	return w.WriteMessages(ctx, msgs...)
}

// hostPort — первый адрес из bootstrap-строки без схемы вида "PLAINTEXT://".
func hostPort(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}
