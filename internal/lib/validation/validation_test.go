package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoNUL(t *testing.T) {
	type payload struct {
		Text    string         `validate:"nonul"`
		Note    *string        `validate:"omitempty,nonul"`
		Context map[string]any `validate:"nonul"`
	}
	withNUL := "a\x00b"
	clean := "ok"

	tests := []struct {
		name    string
		in      payload
		wantErr bool
	}{
		{name: "clean", in: payload{Text: "hello", Note: &clean, Context: map[string]any{"k": []any{"v", 1.0}}}},
		{name: "empty", in: payload{}},
		{name: "nul in string", in: payload{Text: withNUL}, wantErr: true},
		{name: "nul behind pointer", in: payload{Text: "x", Note: &withNUL}, wantErr: true},
		{name: "nul in map key", in: payload{Context: map[string]any{withNUL: "v"}}, wantErr: true},
		{name: "nul nested in map", in: payload{Context: map[string]any{"k": map[string]any{"n": []any{withNUL}}}}, wantErr: true},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
