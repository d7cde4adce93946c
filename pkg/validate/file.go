package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// DetectFormat — auto по расширению; неизвестное расширение → JSON.
func DetectFormat(filePath string, format InputFormat) InputFormat {
	if format != FormatAuto {
		return format
	}
	if strings.EqualFold(filepath.Ext(filePath), ".jsonl") {
		return FormatJSONL
	}
	return FormatJSON
}

// CheckFile — проверяет файл как JSON или JSONL и пишет содержимое валидных конвертов в ow.
func (c *Checker) CheckFile(filePath string, format InputFormat, ow io.Writer) (Result, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	return c.CheckReader(file, DetectFormat(filePath, format), ow)
}

func (c *Checker) CheckReader(ir io.Reader, format InputFormat, ow io.Writer) (Result, error) {
	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(ir)
		if err != nil {
			return Result{}, fmt.Errorf("read input: %w", err)
		}
		return c.CheckDocument(raw, ow)
	case FormatJSONL:
		return c.CheckJSONLStream(ir, ow)
	default:
		return Result{}, fmt.Errorf("unsupported format: %s", format)
	}
}
