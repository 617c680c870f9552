package logger

import "regexp"

const redactedPlaceholder = "[REDACTED]"

// Credential-bearing fragments that must never reach the logs.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`),
	regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s]+`),
}

// SanitizeLogMessage removes sensitive information from log messages
func SanitizeLogMessage(message string) string {
	for _, p := range sensitivePatterns {
		message = p.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	}
	return message
}
