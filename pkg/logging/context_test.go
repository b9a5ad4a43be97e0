package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithLoggerAndFromContext(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	FromContext(ctx).Info().Msg("from context")

	tl.AssertContains(t, "from context")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
	assert.Equal(t, Default(), FromContext(nil)) //nolint:staticcheck // nil ctx is the case under test
}

func TestWithRequestID(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithRequestID(ctx, "abc123")

	assert.Equal(t, "abc123", RequestID(ctx))

	FromContext(ctx).Info().Msg("tagged")
	assert.Contains(t, tl.Output(), `"rid":"abc123"`)
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestWithComponent(t *testing.T) {
	tl := NewTestLogger(t)

	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithComponent(ctx, "readme")

	FromContext(ctx).Info().Msg("rendered")
	assert.Contains(t, tl.Output(), `"component":"readme"`)
}
