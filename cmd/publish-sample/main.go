package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/hermes_receiver/config"
	"github.com/Gunvolt24/hermes_receiver/internal/app"
	"github.com/Gunvolt24/hermes_receiver/internal/wrapper"
)

// maxLineSize — как у проверки JSONL: одна строка stdin может занимать до 10 MiB.
const maxLineSize = 10 * 1024 * 1024

// messageWriter — часть kafka.Writer, нужная публикации.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Утилита для ручной проверки: каждая строка stdin — JSON-содержимое,
// упаковывается в конверт (id — ULID, timestamp — сейчас) и пишется в топик из конфигурации.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	brokersFlag := flag.String("brokers", "", "comma-separated brokers (default: from HERMES_KAFKA_BROKERS)")
	topicFlag := flag.String("topic", "", "topic name (default: <group>.<name> from HERMES_TOPIC_*)")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	brokers := cfg.Kafka.Brokers
	if *brokersFlag != "" {
		brokers = strings.Split(*brokersFlag, ",")
	}
	topic := app.TopicFromConfig(cfg.Topic).QualifiedName()
	if *topicFlag != "" {
		topic = *topicFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: false,
	}
	defer func() {
		if cErr := w.Close(); cErr != nil {
			fmt.Fprintf(os.Stderr, "close writer: %v\n", cErr)
		}
	}()

	sent, skipped, err := publish(ctx, os.Stdin, w, wrapper.NewJSONWrapper(), os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "published %d envelopes to %s (%d skipped)\n", sent, topic, skipped)
	return nil
}

// publish — упаковывает непустые строки in в конверты и пишет их в w.
// Строки, не являющиеся JSON, пропускаются с сообщением в logw.
func publish(ctx context.Context, in io.Reader, w messageWriter, wrap *wrapper.JSONWrapper, logw io.Writer) (sent, skipped int, err error) {
	scanner := bufio.NewScanner(in)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxLineSize)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		env, wErr := wrap.Wrap(line, "", time.Now())
		if wErr != nil {
			fmt.Fprintf(logw, "skip line: %v\n", wErr)
			skipped++
			continue
		}
		if wErr := w.WriteMessages(ctx, kafka.Message{Value: env}); wErr != nil {
			return sent, skipped, fmt.Errorf("write: %w", wErr)
		}
		sent++
	}
	if sErr := scanner.Err(); sErr != nil {
		return sent, skipped, fmt.Errorf("scan: %w", sErr)
	}
	return sent, skipped, nil
}
