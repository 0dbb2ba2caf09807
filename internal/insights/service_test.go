package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csv-analyst/backend/internal/testutil"
)

func TestService_GenerateInsights(t *testing.T) {
	mock := &testutil.MockLLM{Response: "  The data looks balanced.\n"}
	svc := NewService(mock, 5*time.Second)

	out, err := svc.GenerateInsights(context.Background(), sampleEDA())
	require.NoError(t, err)
	assert.Equal(t, "The data looks balanced.", out)

	require.Equal(t, 1, mock.CallCount())
	assert.Contains(t, mock.Calls[0], "Shape: (100, 3)")
}

func TestService_Answer(t *testing.T) {
	mock := &testutil.MockLLM{Response: "Tokyo appears most often."}
	svc := NewService(mock, 5*time.Second)

	out, err := svc.Answer(context.Background(), "which city?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo appears most often.", out)
	assert.Contains(t, mock.Calls[0], `"which city?"`)
}

func TestService_ProviderError(t *testing.T) {
	mock := &testutil.MockLLM{Err: errors.New("quota exceeded")}
	svc := NewService(mock, 5*time.Second)

	_, err := svc.GenerateInsights(context.Background(), sampleEDA())
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestService_NoProvider(t *testing.T) {
	svc := NewService(nil, 0)

	assert.False(t, svc.Enabled())
	assert.Equal(t, "none", svc.Provider())

	_, err := svc.GenerateInsights(context.Background(), sampleEDA())
	assert.ErrorContains(t, err, "no LLM provider configured")
}
