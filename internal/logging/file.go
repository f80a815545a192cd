package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// UseFileLogger switches L to write JSON logs to a size-rotated file.
func UseFileLogger(filepath string) {
	writer := &lumberjack.Logger{
		Filename:   filepath,
		MaxSize:    10, // megabytes
		MaxBackups: 7,
		MaxAge:     28, // days
	}

	L = newLogger(writer)
}
