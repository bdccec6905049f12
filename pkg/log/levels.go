package log

import (
	"fmt"
	"os"
)

// Debug prints to the debug logger.
// Arguments are handled in the manner of fmt.Print.
func Debug(v ...interface{}) {
	_ = loggers[LevelDebug].Output(2, fmt.Sprint(v...))
}

// Debugf prints to the debug logger.
// Arguments are handled in the manner of fmt.Printf.
func Debugf(format string, v ...interface{}) {
	_ = loggers[LevelDebug].Output(2, fmt.Sprintf(format, v...))
}

// Perf prints to the performance logger.
// Arguments are handled in the manner of fmt.Print.
func Perf(v ...interface{}) {
	_ = loggers[LevelPerf].Output(2, fmt.Sprint(v...))
}

// Perff prints to the performance logger.
// Arguments are handled in the manner of fmt.Printf.
func Perff(format string, v ...interface{}) {
	_ = loggers[LevelPerf].Output(2, fmt.Sprintf(format, v...))
}

// Info prints to the info logger.
// Arguments are handled in the manner of fmt.Print.
func Info(v ...interface{}) {
	_ = loggers[LevelInfo].Output(2, fmt.Sprint(v...))
}

// Infof prints to the info logger.
// Arguments are handled in the manner of fmt.Printf.
func Infof(format string, v ...interface{}) {
	_ = loggers[LevelInfo].Output(2, fmt.Sprintf(format, v...))
}

// Warn prints to the warning logger.
// Arguments are handled in the manner of fmt.Print.
func Warn(v ...interface{}) {
	_ = loggers[LevelWarn].Output(2, fmt.Sprint(v...))
}

// Warnf prints to the warning logger.
// Arguments are handled in the manner of fmt.Printf.
func Warnf(format string, v ...interface{}) {
	_ = loggers[LevelWarn].Output(2, fmt.Sprintf(format, v...))
}

// Error prints to the error logger.
// Arguments are handled in the manner of fmt.Print.
func Error(v ...interface{}) {
	_ = loggers[LevelError].Output(2, fmt.Sprint(v...))
}

// Errorf prints to the error logger.
// Arguments are handled in the manner of fmt.Printf.
func Errorf(format string, v ...interface{}) {
	_ = loggers[LevelError].Output(2, fmt.Sprintf(format, v...))
}

// Fatal prints to the fatal logger and exits the process.
// Arguments are handled in the manner of fmt.Print.
func Fatal(v ...interface{}) {
	_ = loggers[LevelFatal].Output(2, fmt.Sprint(v...))
	os.Exit(1)
}

// Fatalf prints to the fatal logger and exits the process.
// Arguments are handled in the manner of fmt.Printf.
func Fatalf(format string, v ...interface{}) {
	_ = loggers[LevelFatal].Output(2, fmt.Sprintf(format, v...))
	os.Exit(1)
}
