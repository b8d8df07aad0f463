package sl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	assert.Equal(t, "<nil>", Err(nil).Value.String())
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "regular", email: "alice@example.com", want: "a***@example.com"},
		{name: "single char local part", email: "a@example.com", want: "a***@example.com"},
		{name: "no at sign", email: "alice", want: "***"},
		{name: "empty local part", email: "@example.com", want: "***"},
		{name: "empty", email: "", want: "***"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}

	assert.Equal(t, "email", Email("bob@example.com").Key)
}
