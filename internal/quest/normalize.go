package quest

import (
	"sort"
	"strconv"

	"github.com/prepquest/prepquest-backend/internal/model"
)

// Normalize maps one raw upstream question record into the canonical Question
// shape. Upstream deployments disagree on field names (`options` vs `choices`,
// `answer` vs `correct`, `correction` vs `explanation`) and on whether the
// option container is an array or a keyed object; all variants collapse here.
// Missing or unrecognized fields become zero values, never an error.
func Normalize(raw map[string]any) model.Question {
	return model.Question{
		Instruction: stringField(raw, "instruction", "question_instruction"),
		Text:        stringField(raw, "question", "text"),
		Options:     optionValues(firstPresent(raw, "options", "choices")),
		Answer:      stringField(raw, "answer", "correct"),
		Correction:  stringField(raw, "correction", "explanation"),
	}
}

func firstPresent(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

// optionValues flattens an option container into an ordered string slice.
// Object containers are ordered by key so that {"a":...,"b":...} keeps its
// A/B/C labeling regardless of decode order.
func optionValues(v any) []string {
	switch container := v.(type) {
	case []any:
		out := make([]string, 0, len(container))
		for _, item := range container {
			out = append(out, asString(item))
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(container))
		for k := range container {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			out = append(out, asString(container[k]))
		}
		return out
	default:
		return nil
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
