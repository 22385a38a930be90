package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the completion provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the completion model identifier.
	FieldModel = "ai_model"
	// FieldSource is the structured log field key for a job source name.
	FieldSource = "source"
	// FieldSearchID correlates every log line of a single aggregated search.
	FieldSearchID = "search_id"
	// FieldScoreID correlates every log line of a single resume scoring call.
	FieldScoreID = "score_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op logger.
func WithFields(l *zap.Logger, fields ...zap.Field) *zap.Logger {
	l = OrNop(l)
	if len(fields) == 0 {
		return l
	}

	return l.With(fields...)
}

// CommonFields returns standard zap fields that describe the completion provider and model.
// Empty values are ignored to keep log entries compact when information is missing.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider and model fields to the provided logger.
func WithCommonFields(l *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(l, CommonFields(provider, model)...)
}

// SourceFields describes a job source taking part in a search.
func SourceFields(source, searchID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSource, Value: source},
		StringField{Key: FieldSearchID, Value: searchID},
	)
}
