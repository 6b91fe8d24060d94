package api

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// scriptedSource replays a fixed sequence of enrichment observations.
type scriptedSource struct {
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	status *DetailsStatus
	err    error
}

func (s *scriptedSource) ProductDetails(ctx context.Context, sessionID string) (*DetailsStatus, error) {
	if s.calls >= len(s.responses) {
		return nil, errors.New("scripted source exhausted")
	}
	r := s.responses[s.calls]
	s.calls++
	return r.status, r.err
}

func TestPoller_CompletesAfterProcessing(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &scriptedSource{responses: []scriptedResponse{
		{status: &DetailsStatus{Status: StatusProcessing}},
		{status: &DetailsStatus{Status: StatusProcessing}},
		{status: &DetailsStatus{
			Status:         StatusCompleted,
			ProductDetails: []ProductDetail{{Name: "X1 Carbon"}},
		}},
	}}

	poller := NewPoller(source, time.Millisecond, 10, nil)
	details, err := poller.Await(context.Background(), "sess-123")
	require.NoError(t, err)

	require.Len(t, details, 1)
	assert.Equal(t, "X1 Carbon", details[0].Name)
	assert.Equal(t, 3, source.calls)
}

func TestPoller_CompletedImmediately(t *testing.T) {
	source := &scriptedSource{responses: []scriptedResponse{
		{status: &DetailsStatus{Status: StatusCompleted}},
	}}

	poller := NewPoller(source, time.Millisecond, 10, nil)
	details, err := poller.Await(context.Background(), "sess-123")
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestPoller_TransportFailure(t *testing.T) {
	source := &scriptedSource{responses: []scriptedResponse{
		{err: errors.New("connection refused")},
	}}

	poller := NewPoller(source, time.Millisecond, 10, nil)
	_, err := poller.Await(context.Background(), "sess-123")

	var pollErr *PollError
	require.ErrorAs(t, err, &pollErr)
	assert.Equal(t, "sess-123", pollErr.SessionID)
}

func TestPoller_UnexpectedStatus(t *testing.T) {
	source := &scriptedSource{responses: []scriptedResponse{
		{status: &DetailsStatus{Status: "error"}},
	}}

	poller := NewPoller(source, time.Millisecond, 10, nil)
	_, err := poller.Await(context.Background(), "sess-123")

	require.ErrorIs(t, err, ErrUnexpectedStatus)
	var pollErr *PollError
	require.ErrorAs(t, err, &pollErr)
	assert.Equal(t, "error", pollErr.Status)
}

func TestPoller_AttemptBudgetExhausted(t *testing.T) {
	defer goleak.VerifyNone(t)

	responses := make([]scriptedResponse, 5)
	for i := range responses {
		responses[i] = scriptedResponse{status: &DetailsStatus{Status: StatusProcessing}}
	}
	source := &scriptedSource{responses: responses}

	poller := NewPoller(source, time.Millisecond, 3, nil)
	_, err := poller.Await(context.Background(), "sess-123")

	require.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, 3, source.calls)
}

func TestPoller_ContextCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	// Long interval so cancellation must interrupt the inter-attempt wait.
	responses := make([]scriptedResponse, 10)
	for i := range responses {
		responses[i] = scriptedResponse{status: &DetailsStatus{Status: StatusProcessing}}
	}
	source := &scriptedSource{responses: responses}

	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(source, time.Minute, 10, nil)

	done := make(chan error, 1)
	go func() {
		_, err := poller.Await(ctx, "sess-123")
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
		var pollErr *PollError
		require.ErrorAs(t, err, &pollErr)
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not observe cancellation")
	}
}

func TestNewPoller_Defaults(t *testing.T) {
	poller := NewPoller(&scriptedSource{}, 0, 0, nil)
	assert.Equal(t, DefaultPollInterval, poller.interval)
	assert.Equal(t, DefaultPollMaxAttempts, poller.maxAttempts)
}
