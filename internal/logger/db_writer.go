package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "firm-crm/internal/common/models"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	RunID   string
	Caller  string // Function name
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	insert  func(ctx context.Context, rec common_models.Log) error
	logChan chan LogEntry
	appId   string
	done    chan struct{}
	once    sync.Once

	mu     sync.RWMutex
	closed bool
}

// NewDBLogWriter starts the background worker immediately
func NewDBLogWriter(insert func(ctx context.Context, rec common_models.Log) error, appId string, buffer int) *DBLogWriter {
	writer := &DBLogWriter{
		insert:  insert,
		logChan: make(chan LogEntry, buffer),
		appId:   appId,
		done:    make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap core. Entries after Close are dropped.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close drains queued entries and stops the worker
func (w *DBLogWriter) Close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.logChan)
		w.mu.Unlock()
		<-w.done
	})
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		rec := common_models.Log{
			Message:      entry.Message,
			Level:        entry.Level.String(),
			LogLevelId:   mapLevelToInt(entry.Level),
			Caller:       entry.Caller,
			RunID:        entry.RunID,
			AppId:        w.appId,
			CreatedOnUtc: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.insert(ctx, rec); err != nil {
			fmt.Println("Failed to persist log:", err)
		}
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
