package validate

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// CheckJSONLStream — читает JSONL, проверяет каждую строку, содержимое валидных пишет в ow.
// Пустые строки пропускаются; невалидные считаются, но не прерывают проверку.
func (c *Checker) CheckJSONLStream(ir io.Reader, ow io.Writer) (Result, error) {
	var res Result

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		valid, err := c.check(line, ow)
		if err != nil {
			return res, err
		}
		res.add(valid)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
