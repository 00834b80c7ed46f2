package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type echoQuery struct {
	Value string
}

func (q echoQuery) Validate() error {
	if q.Value == "" {
		return errors.New("value is required")
	}
	return nil
}

type otherQuery struct{}

func (q otherQuery) Validate() error { return nil }

func echo(_ context.Context, q echoQuery) (string, error) {
	if q.Value == "fail" {
		return "", errors.New("boom")
	}
	return "echo:" + q.Value, nil
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) StartTimer(metric, label string) Timer {
	args := m.Called(metric, label)
	return args.Get(0).(Timer)
}

func (m *mockMetrics) Increment(metric, label string) {
	m.Called(metric, label)
}

type mockTimer struct {
	mock.Mock
}

func (t *mockTimer) Stop() { t.Called() }

type recordingMiddleware struct {
	name  string
	calls *[]string
}

func (m recordingMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, q Query) (interface{}, error) {
		*m.calls = append(*m.calls, m.name)
		return next.Handle(ctx, q)
	})
}

func TestQueryBus_Ask(t *testing.T) {
	// Arrange
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(echo)))

	// Act
	result, err := b.Ask(context.Background(), echoQuery{Value: "hi"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", result)
}

func TestQueryBus_Errors(t *testing.T) {
	b := NewQueryBus()
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(echo)))

	t.Run("duplicate registration", func(t *testing.T) {
		err := b.Register(echoQuery{}, HandlerFor(echo))
		assert.ErrorContains(t, err, "already registered")
	})

	t.Run("validation failure", func(t *testing.T) {
		_, err := b.Ask(context.Background(), echoQuery{})
		assert.ErrorContains(t, err, "query validation failed")
	})

	t.Run("unregistered query", func(t *testing.T) {
		_, err := b.Ask(context.Background(), otherQuery{})
		assert.ErrorContains(t, err, "no handler registered")
	})

	t.Run("handler error is wrapped", func(t *testing.T) {
		_, err := b.Ask(context.Background(), echoQuery{Value: "fail"})
		assert.ErrorContains(t, err, "boom")
	})
}

func TestQueryBus_MiddlewareOrder(t *testing.T) {
	// Arrange
	var calls []string
	b := NewQueryBus(
		recordingMiddleware{name: "outer", calls: &calls},
		recordingMiddleware{name: "inner", calls: &calls},
	)
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(echo)))

	// Act
	_, err := b.Ask(context.Background(), echoQuery{Value: "x"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

func TestMetricsMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		outcome string
	}{
		{name: "success", value: "ok", outcome: MetricQuerySuccess},
		{name: "error", value: "fail", outcome: MetricQueryErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			timer := new(mockTimer)
			timer.On("Stop").Once()
			metrics := new(mockMetrics)
			metrics.On("StartTimer", MetricQueryDuration, "echoQuery").Return(timer).Once()
			metrics.On("Increment", MetricQueryCount, "echoQuery").Once()
			metrics.On("Increment", tt.outcome, "echoQuery").Once()

			b := NewQueryBus(NewMetricsMiddleware(metrics))
			require.NoError(t, b.Register(echoQuery{}, HandlerFor(echo)))

			// Act
			_, _ = b.Ask(context.Background(), echoQuery{Value: tt.value})

			// Assert
			metrics.AssertExpectations(t)
			timer.AssertExpectations(t)
		})
	}
}

func TestTracingMiddleware_PassesThrough(t *testing.T) {
	// Arrange
	b := NewQueryBus(NewTracingMiddleware())
	require.NoError(t, b.Register(echoQuery{}, HandlerFor(echo)))

	// Act
	result, err := b.Ask(context.Background(), echoQuery{Value: "traced"})
	_, failErr := b.Ask(context.Background(), echoQuery{Value: "fail"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "echo:traced", result)
	assert.Error(t, failErr)
}

func TestHandlerFor_RejectsWrongType(t *testing.T) {
	// Arrange
	h := HandlerFor(echo)

	// Act
	_, err := h.Handle(context.Background(), otherQuery{})

	// Assert
	assert.ErrorContains(t, err, "unexpected query type")
}
