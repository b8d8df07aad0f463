package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAuthFailure(t *testing.T) {
	before := testutil.ToFloat64(AuthFailures.WithLabelValues("invalid_token"))

	AuthFailure("invalid_token")
	AuthFailure("invalid_token")

	assert.Equal(t, before+2, testutil.ToFloat64(AuthFailures.WithLabelValues("invalid_token")))
}
