package logger

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/boardguard/boardguard/internal/redact"
)

// AuditEvent is one decision the guard made, recorded as a JSONL line.
type AuditEvent struct {
	Timestamp    string   `json:"timestamp"`
	Tool         string   `json:"tool"`
	FilePath     string   `json:"file_path,omitempty"`
	Command      string   `json:"command,omitempty"`
	Decision     string   `json:"decision"`
	Category     string   `json:"category,omitempty"`
	Pattern      string   `json:"pattern,omitempty"`
	RemovedIDs   []string `json:"removed_ids,omitempty"`
	Unauthorized []string `json:"unauthorized,omitempty"`
	Source       string   `json:"source"`
}

type AuditLogger struct {
	file *os.File
	mu   sync.Mutex
}

func New(path string) (*AuditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	return &AuditLogger{file: file}, nil
}

func (l *AuditLogger) Log(event AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Redact sensitive data before logging
	event.Command = redact.Redact(event.Command)

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = l.file.Write(data)
	return err
}

func (l *AuditLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
