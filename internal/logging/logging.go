package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	logFile *os.File
	console io.Writer = os.Stdout
)

// Init routes the standard logger to the log file at logPath and, when
// toConsole is set, to stdout as well. With neither, log output is discarded.
func Init(logPath string, toConsole bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	if toConsole {
		writers = append(writers, console)
	}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close closes the log file and restores logging to stderr.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// LogEvent logs a formatted event line.
func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogInvocation logs one workload call.
func LogInvocation(benchmark string, worker int, elapsed time.Duration, verdict string, err error, value any) {
	log.Println(buildInvocationMessage(benchmark, worker, elapsed, verdict, err, value))
}

func buildInvocationMessage(benchmark string, worker int, elapsed time.Duration, verdict string, err error, value any) string {
	name := strings.TrimSpace(benchmark)
	if name == "" {
		name = "unknown"
	}
	status := "OK"
	if err != nil {
		status = "ERROR"
	}
	parts := []string{fmt.Sprintf("[%s]", status)}
	parts = append(parts, fmt.Sprintf("benchmark=%s", name))
	parts = append(parts, fmt.Sprintf("worker=%d", worker))
	parts = append(parts, fmt.Sprintf("elapsed=%s", elapsed))
	if verdict = strings.TrimSpace(verdict); verdict != "" {
		parts = append(parts, fmt.Sprintf("verdict=%s", verdict))
	}
	if err != nil {
		parts = append(parts, fmt.Sprintf("error=%q", err.Error()))
	} else {
		parts = append(parts, fmt.Sprintf("value=%s", formatValue(value)))
	}
	return strings.Join(parts, " ")
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
