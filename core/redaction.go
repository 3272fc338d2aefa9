package core

import "strings"

const RedactedValue = "[REDACTED]"

func RedactSensitiveMap(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return map[string]any{}
	}
	return redactSensitiveMap(metadata)
}

func redactSensitiveMap(source map[string]any) map[string]any {
	target := make(map[string]any, len(source))
	for key, value := range source {
		if shouldRedactKey(key) {
			target[key] = RedactedValue
			continue
		}
		target[key] = redactSensitiveValue(value)
	}
	return target
}

func redactSensitiveValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return redactSensitiveMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = redactSensitiveValue(typed[i])
		}
		return out
	default:
		return value
	}
}

func shouldRedactKey(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || isTraceabilityKey(key) {
		return false
	}
	sensitiveTokens := []string{
		"password",
		"secret",
		"token",
		"authorization",
		"api_key",
		"apikey",
		"access_key",
		"refresh",
		"credential",
		"signature",
		"private_key",
		"app_key",
		"cookie",
	}
	for _, token := range sensitiveTokens {
		if strings.Contains(key, token) {
			return true
		}
	}
	return false
}

func isTraceabilityKey(key string) bool {
	switch key {
	case "event",
		"scope",
		"code",
		"invoice_id",
		"refund_id",
		"payout_id",
		"recipient_id",
		"trace_id",
		"request_id":
		return true
	default:
		return false
	}
}

// IsSensitiveKey reports whether values stored under key are masked in logs.
func IsSensitiveKey(key string) bool {
	return shouldRedactKey(key)
}

// RedactHeaders returns a flattened copy of headers with sensitive values
// masked. Header names are lower-cased and hyphens become underscores before
// matching.
func RedactHeaders(headers map[string][]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		value := strings.Join(values, ",")
		normalized := strings.ReplaceAll(strings.ToLower(name), "-", "_")
		if shouldRedactKey(normalized) || normalized == "x_identity" {
			value = RedactedValue
		}
		out[strings.ToLower(name)] = value
	}
	return out
}
