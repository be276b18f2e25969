package gui

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogWriter is a custom writer that captures log output
type LogWriter struct {
	viewer   *LogViewer
	original *os.File
}

// Write implements io.Writer
func (w *LogWriter) Write(p []byte) (n int, err error) {
	// Write to original output
	if w.original != nil {
		w.original.Write(p)
	}

	// Send to log viewer
	if w.viewer != nil {
		message := strings.TrimRight(string(p), "\n")
		if message != "" {
			w.viewer.AddMessage(message)
		}
	}

	return len(p), nil
}

// LogViewer captures process output and shows it in its own window.
// The fetch pipeline reports progress through fmt.Printf, the same as
// the CLI, so redirecting stdout and stderr makes that visible in the
// GUI without a second logging path.
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll
	window     fyne.Window

	mu          sync.Mutex
	messages    []string
	maxMessages int

	// For capturing output
	originalStdout *os.File
	originalStderr *os.File
	stdoutWriter   *LogWriter
	stderrWriter   *LogWriter
}

// NewLogViewer creates a new log viewer widget
func NewLogViewer() *LogViewer {
	v := &LogViewer{
		maxMessages: 1000, // Keep last 1000 messages
		messages:    make([]string, 0),
	}

	// Read-only multiline entry holds the captured text
	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable()
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(0, 180))
	v.scrollView.Direction = container.ScrollBoth

	v.container = container.NewBorder(
		widget.NewLabel("Log messages (newest first):"),
		nil,
		nil,
		nil,
		v.scrollView,
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// ShowWindow opens the log viewer in its own window, reusing the
// existing one when it is already open
func (v *LogViewer) ShowWindow(app fyne.App) {
	if v.window != nil {
		v.window.Show()
		v.window.RequestFocus()
		return
	}

	v.window = app.NewWindow("quizanki - Activity Log")
	v.window.Resize(fyne.NewSize(640, 400))
	v.window.SetContent(v.container)
	v.window.SetOnClosed(func() {
		v.window = nil
	})
	v.window.Show()
}

// StartCapture starts capturing stdout and stderr
func (v *LogViewer) StartCapture() {
	// Save original outputs
	v.originalStdout = os.Stdout
	v.originalStderr = os.Stderr

	// Create custom writers
	v.stdoutWriter = &LogWriter{viewer: v, original: v.originalStdout}
	v.stderrWriter = &LogWriter{viewer: v, original: v.originalStderr}

	// Create pipe for stdout
	stdoutR, stdoutW, _ := os.Pipe()
	os.Stdout = stdoutW

	// Create pipe for stderr
	stderrR, stderrW, _ := os.Pipe()
	os.Stderr = stderrW

	// Also redirect log package output
	log.SetOutput(v.stdoutWriter)

	// Start goroutines to read from pipes
	go v.pipeReader(stdoutR, v.stdoutWriter)
	go v.pipeReader(stderrR, v.stderrWriter)
}

// pipeReader reads from a pipe and writes to a LogWriter
func (v *LogViewer) pipeReader(pipe *os.File, writer *LogWriter) {
	buf := make([]byte, 1024)
	for {
		n, err := pipe.Read(buf)
		if n > 0 {
			writer.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
}

// StopCapture stops capturing stdout and stderr
func (v *LogViewer) StopCapture() {
	if v.originalStdout != nil {
		os.Stdout = v.originalStdout
		v.originalStdout = nil
	}
	if v.originalStderr != nil {
		os.Stderr = v.originalStderr
		v.originalStderr = nil
	}

	// Reset log package output
	log.SetOutput(os.Stderr)
}

// AddMessage adds a message to the log
func (v *LogViewer) AddMessage(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	fullMessage := fmt.Sprintf("[%s] %s", timestamp, message)

	// Prepend to messages (newest first)
	v.messages = append([]string{fullMessage}, v.messages...)

	// Trim if too many messages (remove oldest from the end)
	if len(v.messages) > v.maxMessages {
		v.messages = v.messages[:v.maxMessages]
	}

	// Update UI on main thread
	fyne.Do(func() {
		text := strings.Join(v.messages, "\n")
		v.logEntry.SetText(text)

		// Keep scroll at top to show newest messages
		v.scrollView.Offset = fyne.NewPos(0, 0)
		v.scrollView.Refresh()
	})
}

// Clear clears all log messages
func (v *LogViewer) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.messages = v.messages[:0]

	fyne.Do(func() {
		v.logEntry.SetText("")
		v.scrollView.Offset = fyne.NewPos(0, 0)
		v.scrollView.Refresh()
	})
}

// Log adds a message without timestamp (for internal use)
func (v *LogViewer) Log(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	v.AddMessage(message)
}
