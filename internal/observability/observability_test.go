package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "alumnet-test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "svc", "op")
	assert.NotNil(t, ctx)
	span.End(errors.New("boom"))
}

func TestNilSpanIsSafe(t *testing.T) {
	var s *Span
	s.AddAttributes()
	s.End(nil)
	assert.Empty(t, s.TraceID())
}

func TestTrackQuery(t *testing.T) {
	done := TrackQuery("select", "users_test")
	done()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(DatabaseQueryLatency), 1)
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(VerificationDecisions.WithLabelValues("approved"))
	VerificationDecisions.WithLabelValues("approved").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(VerificationDecisions.WithLabelValues("approved")))
}
