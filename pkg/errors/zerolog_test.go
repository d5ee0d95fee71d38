package errors

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

// logObject renders a LogObjectMarshaler through a zerolog JSON event and
// returns the decoded object under the "e" key.
func logObject(t *testing.T, obj zerolog.LogObjectMarshaler) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Warn().Object("e", obj).Msg("")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("zerolog output is not valid JSON: %v\n%s", err, buf.String())
	}
	fields, ok := record["e"].(map[string]any)
	if !ok {
		t.Fatalf("missing structured object in %s", buf.String())
	}
	return fields
}

func TestMarshalZerologObject(t *testing.T) {
	tests := []struct {
		name string
		obj  zerolog.LogObjectMarshaler
		want map[string]any
	}{
		{
			name: "ConvergenceWarning",
			obj:  NewConvergenceWarning("LogisticRegression", 1000, ""),
			want: map[string]any{
				"type":       "ConvergenceWarning",
				"algorithm":  "LogisticRegression",
				"iterations": float64(1000),
			},
		},
		{
			name: "NotFittedError",
			obj:  &NotFittedError{ModelName: "LogTransformer", Method: "Transform"},
			want: map[string]any{
				"type":       "NotFittedError",
				"model_name": "LogTransformer",
				"method":     "Transform",
			},
		},
		{
			name: "DimensionError",
			obj:  &DimensionError{Op: "Fit", Expected: 4, Got: 3, Axis: 1},
			want: map[string]any{
				"type":     "DimensionError",
				"expected": float64(4),
				"got":      float64(3),
			},
		},
		{
			name: "ValidationError",
			obj:  &ValidationError{ParamName: "train_ratio", Reason: "must be in (0, 1)", Value: 1.5},
			want: map[string]any{
				"type":       "ValidationError",
				"param_name": "train_ratio",
			},
		},
		{
			name: "NonPositiveValueError",
			obj:  &NonPositiveValueError{Op: "Fit", Column: "volume", Row: 3, Value: 0},
			want: map[string]any{
				"type":   "NonPositiveValueError",
				"column": "volume",
				"row":    float64(3),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := logObject(t, tt.obj)
			for key, want := range tt.want {
				if fields[key] != want {
					t.Errorf("field %q = %v, want %v", key, fields[key], want)
				}
			}
		})
	}
}
