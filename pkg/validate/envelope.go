package validate

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bytedance/sonic"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/ports"
	"github.com/Gunvolt24/hermes_receiver/internal/wrapper"
)

// Checker — офлайн-проверка конвертов тем же кодеком, что и у получателя.
type Checker struct {
	wrapper ports.ContentWrapper
	topic   domain.Topic
}

func NewChecker(wrapper ports.ContentWrapper, topic domain.Topic) *Checker {
	return &Checker{wrapper: wrapper, topic: topic}
}

// Result — статистика проверки.
type Result struct {
	Valid   int
	Invalid int
}

func (r Result) String() string {
	return fmt.Sprintf("%d valid / %d invalid", r.Valid, r.Invalid)
}

func (r *Result) add(valid bool) {
	if valid {
		r.Valid++
	} else {
		r.Invalid++
	}
}

// Check — распаковывает один конверт и пишет его содержимое строкой в ow.
func (c *Checker) Check(raw []byte, ow io.Writer) error {
	unwrapped, err := c.wrapper.Unwrap(raw, c.topic)
	if err != nil {
		return err
	}
	return writeLine(ow, unwrapped.Content)
}

// check — как Check, но отделяет невалидный конверт (valid=false) от ошибки записи (err).
func (c *Checker) check(raw []byte, ow io.Writer) (bool, error) {
	unwrapped, err := c.wrapper.Unwrap(raw, c.topic)
	if err != nil {
		return false, nil
	}
	if err := writeLine(ow, unwrapped.Content); err != nil {
		return false, err
	}
	return true, nil
}

// CheckDocument — JSON-документ: один конверт или массив конвертов.
// Ошибкой возвращается только сбой чтения/записи, невалидные конверты попадают в Result.
func (c *Checker) CheckDocument(raw []byte, ow io.Writer) (Result, error) {
	var res Result

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		valid, err := c.check(trimmed, ow)
		if err != nil {
			return res, err
		}
		res.add(valid)
		return res, nil
	}

	var items []wrapper.RawJSON
	if err := sonic.Unmarshal(trimmed, &items); err != nil {
		return res, fmt.Errorf("invalid json array: %w", err)
	}
	for _, item := range items {
		valid, err := c.check(item, ow)
		if err != nil {
			return res, err
		}
		res.add(valid)
	}
	return res, nil
}

func writeLine(ow io.Writer, b []byte) error {
	line := make([]byte, 0, len(b)+1)
	line = append(line, b...)
	line = append(line, '\n')
	if _, err := ow.Write(line); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return nil
}
