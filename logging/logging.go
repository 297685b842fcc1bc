/*
Copyright 2024, Cossack Labs Limited

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging configures logrus output for ripe command line tools.
// Logging mode and verbosity level are set from CLI parameters or the
// corresponding yaml config files.
package logging

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Log modes
const (
	LogDebug = iota
	LogVerbose
	LogDiscard
)

// Supported log format names
const (
	PlaintextFormatString = "plaintext"
	JSONFormatString      = "json"
)

// FieldKeyService log field carrying the tool name in JSON output
const FieldKeyService = "service"

// SetLogLevel sets logging level
func SetLogLevel(level int) {
	if level == LogDebug {
		log.SetLevel(log.DebugLevel)
	} else if level == LogVerbose {
		log.SetLevel(log.InfoLevel)
	} else if level == LogDiscard {
		log.SetLevel(log.WarnLevel)
	} else {
		panic(fmt.Sprintf("Incorrect log level - %v", level))
	}
}

// GetLogLevel returns the current log mode
func GetLogLevel() int {
	if log.GetLevel() == log.DebugLevel {
		return LogDebug
	}
	if log.GetLevel() == log.InfoLevel {
		return LogVerbose
	}
	return LogDiscard
}

// serviceFormatter stamps entries with the service name before delegating to
// the wrapped formatter
type serviceFormatter struct {
	wrapped     log.Formatter
	serviceName string
}

func (f *serviceFormatter) Format(entry *log.Entry) ([]byte, error) {
	if f.serviceName != "" {
		entry.Data[FieldKeyService] = f.serviceName
	}
	return f.wrapped.Format(entry)
}

// CreateFormatter creates a formatter by name and installs it as the
// standard logger formatter
func CreateFormatter(format, serviceName string) log.Formatter {
	var formatter log.Formatter
	switch strings.ToLower(format) {
	case JSONFormatString:
		formatter = &serviceFormatter{wrapped: &log.JSONFormatter{}, serviceName: serviceName}
	default:
		formatter = &log.TextFormatter{FullTimestamp: true}
	}
	log.SetFormatter(formatter)
	return formatter
}
