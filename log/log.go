package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLog    = log.New(io.Discard, "INFO:", log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(io.Discard, "WARNING:", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog   = log.New(io.Discard, "ERROR:", log.Ldate|log.Ltime|log.Lshortfile)
)

var logFileName = filepath.Join(os.TempDir(), "cockpitview.log")

var globalLogFile *lumberjack.Logger

// Initialize should be called once at the beginning of the program to set up
// logging. The server flag selects a larger, compressed rotation policy and a
// separate file for the SSH host.
func Initialize(server bool) {
	w := &lumberjack.Logger{
		Filename:   logFileName,
		MaxSize:    16, // MB
		MaxBackups: 1,
	}
	if server {
		w = &lumberjack.Logger{
			Filename: filepath.Join(os.TempDir(), "cockpitview-server.log"),
			MaxSize:  64, // MB
			MaxAge:   14,
			Compress: true,
		}
	}

	// Set log format to include timestamp and file/line number
	fmtS := "%s"
	if server {
		fmtS = "[SERVER] %s"
	}
	InfoLog = log.New(w, fmt.Sprintf(fmtS, "INFO:"), log.Ldate|log.Ltime|log.Lshortfile)
	WarningLog = log.New(w, fmt.Sprintf(fmtS, "WARNING:"), log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog = log.New(w, fmt.Sprintf(fmtS, "ERROR:"), log.Ldate|log.Ltime|log.Lshortfile)

	globalLogFile = w

	InitDebug()
}

// Close flushes and closes the log file. The loggers fall back to discarding
// output afterwards.
func Close() {
	CloseDebug()
	if globalLogFile == nil {
		return
	}
	_ = globalLogFile.Close()
	fmt.Println("wrote logs to " + globalLogFile.Filename)
	globalLogFile = nil

	InfoLog.SetOutput(io.Discard)
	WarningLog.SetOutput(io.Discard)
	ErrorLog.SetOutput(io.Discard)
}
