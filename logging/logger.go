package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Level int

const (
	FATAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

func (l Level) String() string {
	switch l {
	case FATAL:
		return "fatal"
	case ERROR:
		return "error"
	case WARNING:
		return "warn"
	case INFO:
		return "info"
	case DEBUG:
		return "debug"
	}
	return "unknown"
}

type Record struct {
	Level     Level
	Component string
	Message   string
}

const (
	CLEARLINE = "\x1b[2K"
)

func Debugf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{DEBUG, "", fmt.Sprintf(msg, args...)}
}

func Infof(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{INFO, "", fmt.Sprintf(msg, args...)}
}

func Warnf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{WARNING, "", fmt.Sprintf(msg, args...)}
}

func Errorf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{ERROR, "", fmt.Sprintf(msg, args...)}
}

// Progress replaces the current progress line. An empty msg clears it.
func Progress(msg string) {
	defaultLogBroker.Progress <- msg
}

// SetQuiet suppresses progress lines. Records are still printed.
func SetQuiet(quiet bool) {
	defaultLogBroker.setQuiet(quiet)
}

// SetLevel sets the highest level that gets printed. Defaults to INFO.
func SetLevel(level Level) {
	defaultLogBroker.setLevel(level)
}

type Logger struct {
	Component string
}

func NewLogger(component string) *Logger {
	return &Logger{component}
}

func (l *Logger) Print(args ...interface{}) {
	defaultLogBroker.Records <- Record{INFO, l.Component, fmt.Sprint(args...)}
}

func (l *Logger) Printf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{INFO, l.Component, fmt.Sprintf(msg, args...)}
}

func (l *Logger) Debugf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{DEBUG, l.Component, fmt.Sprintf(msg, args...)}
}

// Fatal prints the message, flushes all pending records and exits with 1.
func (l *Logger) Fatal(args ...interface{}) {
	defaultLogBroker.Records <- Record{FATAL, l.Component, fmt.Sprint(args...)}
	Shutdown()
	os.Exit(1)
}

func (l *Logger) Fatalf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{FATAL, l.Component, fmt.Sprintf(msg, args...)}
	Shutdown()
	os.Exit(1)
}

func (l *Logger) Errorf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{ERROR, l.Component, fmt.Sprintf(msg, args...)}
}

func (l *Logger) Warn(args ...interface{}) {
	defaultLogBroker.Records <- Record{WARNING, l.Component, fmt.Sprint(args...)}
}

func (l *Logger) Warnf(msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{WARNING, l.Component, fmt.Sprintf(msg, args...)}
}

func (l *Logger) Printfl(level Level, msg string, args ...interface{}) {
	defaultLogBroker.Records <- Record{level, l.Component, fmt.Sprintf(msg, args...)}
}

// StartStep prints msg as progress and remembers the start time.
// Pass the returned value to StopStep to log the duration.
func (l *Logger) StartStep(msg string) string {
	defaultLogBroker.StepStart <- Step{l.Component, msg}
	return msg
}

func (l *Logger) StopStep(msg string) {
	defaultLogBroker.StepStop <- Step{l.Component, msg}
}

type Step struct {
	Component string
	Name      string
}

type LogBroker struct {
	Records   chan Record
	Progress  chan string
	StepStart chan Step
	StepStop  chan Step

	out          io.Writer
	mu           sync.Mutex
	quiet        bool
	level        Level
	quit         chan bool
	wg           *sync.WaitGroup
	newline      bool
	lastProgress string
}

func newLogBroker(out io.Writer) *LogBroker {
	l := &LogBroker{
		Records:   make(chan Record, 8),
		Progress:  make(chan string),
		StepStart: make(chan Step),
		StepStop:  make(chan Step),
		out:       out,
		level:     INFO,
		quit:      make(chan bool),
		wg:        &sync.WaitGroup{},
		newline:   true,
	}
	l.wg.Add(1)
	go l.loop()
	return l
}

func (l *LogBroker) setQuiet(quiet bool) {
	l.mu.Lock()
	l.quiet = quiet
	l.mu.Unlock()
}

func (l *LogBroker) setLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *LogBroker) isQuiet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.quiet
}

func (l *LogBroker) enabled(level Level) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return level <= l.level
}

func (l *LogBroker) loop() {
	defer l.wg.Done()
	steps := make(map[Step]time.Time)
For:
	for {
		select {
		case record := <-l.Records:
			l.printRecord(record)
		case progress := <-l.Progress:
			if progress == "" {
				l.clearProgress()
			} else if !l.isQuiet() {
				l.printProgress(progress)
			}
		case step := <-l.StepStart:
			steps[step] = time.Now()
			if !l.isQuiet() {
				l.printProgress(step.Name)
			}
		case step := <-l.StepStop:
			startTime := steps[step]
			delete(steps, step)
			if l.lastProgress == step.Name {
				l.clearProgress()
			}
			duration := time.Since(startTime)
			l.printRecord(Record{INFO, step.Component, step.Name + " took: " + duration.String()})
		case <-l.quit:
			break For
		}
	}
Flush:
	// after quit, print all records from chan
	for {
		select {
		case record := <-l.Records:
			l.printRecord(record)
		default:
			break Flush
		}
	}
	if !l.newline {
		fmt.Fprintln(l.out)
	}
}

func (l *LogBroker) printPrefix() {
	fmt.Fprint(l.out, "[", time.Now().Format(time.Stamp), "] ")
}

func (l *LogBroker) printComponent(component string) {
	if component != "" {
		fmt.Fprint(l.out, "[", component, "] ")
	}
}

func (l *LogBroker) printRecord(record Record) {
	if !l.enabled(record.Level) {
		return
	}
	if !l.newline {
		fmt.Fprint(l.out, CLEARLINE)
	}
	l.printPrefix()
	l.printComponent(record.Component)
	if record.Level != INFO {
		fmt.Fprint(l.out, "[", record.Level, "] ")
	}
	fmt.Fprintln(l.out, record.Message)
	l.newline = true
	if l.lastProgress != "" && !l.isQuiet() {
		l.printProgress(l.lastProgress)
	}
}

func (l *LogBroker) printProgress(progress string) {
	l.printPrefix()
	fmt.Fprint(l.out, progress)
	fmt.Fprint(l.out, "\r")
	l.lastProgress = progress
	l.newline = false
}

func (l *LogBroker) clearProgress() {
	if !l.newline {
		fmt.Fprint(l.out, CLEARLINE, "\r")
	}
	l.lastProgress = ""
	l.newline = true
}

func (l *LogBroker) shutdown() {
	l.quit <- true
	l.wg.Wait()
}

var (
	defaultLogBroker *LogBroker
	shutdownOnce     sync.Once
)

// Shutdown flushes all pending records and stops the broker.
// Logging after Shutdown blocks.
func Shutdown() {
	shutdownOnce.Do(defaultLogBroker.shutdown)
}

func init() {
	defaultLogBroker = newLogBroker(os.Stderr)
}
