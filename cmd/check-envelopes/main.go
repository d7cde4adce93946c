package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/hermes_receiver/internal/domain"
	"github.com/Gunvolt24/hermes_receiver/internal/wrapper"
	"github.com/Gunvolt24/hermes_receiver/pkg/validate"
)

// CLI для проверки файлов с конвертами: печатает содержимое валидных и итог "N valid / M invalid".
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	contentType := flag.String("content-type", "JSON", "topic content type")
	flag.Parse()

	topic := domain.Topic{Name: "offline", ContentType: domain.ParseContentType(*contentType)}
	checker := validate.NewChecker(wrapper.NewMessageContentWrapper(), topic)
	format := validate.InputFormat(*formatStr)

	var (
		res validate.Result
		err error
	)
	if *inputPath == "" {
		// stdin вариант: считаем, что jsonl
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
		res, err = checker.CheckReader(os.Stdin, format, os.Stdout)
	} else {
		res, err = checker.CheckFile(*inputPath, format, os.Stdout)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "check: %v (%s)\n", err, res)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "check done (%s)\n", res)
	if res.Invalid > 0 {
		os.Exit(2)
	}
}
