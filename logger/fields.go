package logger

import "time"

// Field keys shared by every package that logs a REST call.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldWait      = "wait_ms"
	FieldProvider  = "provider"
	FieldHost      = "host"
)

// Fields pairs up alternating keys and values. Non-string keys and a trailing
// key without a value are dropped.
//
//	log.Info("request sent", logger.Fields(logger.FieldMethod, "GET", logger.FieldStatus, 200))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		key, ok := kvs[i-1].(string)
		if !ok {
			continue
		}
		m[key] = kvs[i]
	}
	return m
}

func ErrorFields(op string, err error) map[string]interface{} {
	return Fields(FieldOperation, op, FieldError, err.Error())
}

// DurationFields reports d in whole milliseconds.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return Fields(FieldOperation, op, FieldDuration, d.Milliseconds())
}
