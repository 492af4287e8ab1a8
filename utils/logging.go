package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// SetupLogging configures the global logging. With toFile set, output is
// also appended to a dated log file in the working directory.
func SetupLogging(toFile bool) *log.Logger {
	flags := log.Ldate | log.Ltime | log.Lshortfile
	log.SetFlags(flags)

	if !toFile {
		log.SetOutput(os.Stdout)
		return log.New(os.Stdout, "", flags)
	}

	// Create log file with timestamp
	logFileName := fmt.Sprintf("bucketindex_%s.log", time.Now().Format("2006-01-02"))

	// Try to open log file, but don't fail if we can't
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Just write to stdout if we can't create a log file
		log.SetOutput(os.Stdout)
		log.Printf("Warning: Could not create log file: %v", err)
		return log.New(os.Stdout, "", flags)
	}

	// Use both stdout and file for logging
	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)

	return log.New(multiWriter, "", flags)
}

// NewCustomLogger creates a new logger with a specific prefix
func NewCustomLogger(prefix string) *log.Logger {
	// Get the global logger's output
	return log.New(log.Writer(), fmt.Sprintf("[%s] ", prefix), log.Ldate|log.Ltime|log.Lshortfile)
}
