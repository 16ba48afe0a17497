package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunJSONSubprocessRoundTripsThroughCat(t *testing.T) {
	type payload struct {
		Hello string `json:"hello"`
	}
	var out payload
	err := runJSONSubprocess(context.Background(), "cat", nil, []byte(`{"hello":"world"}`), &out)
	require.NoError(t, err)
	assert.Equal(t, "world", out.Hello)
}

func TestRunJSONSubprocessFailsOnUnknownCommand(t *testing.T) {
	var out map[string]any
	err := runJSONSubprocess(context.Background(), "sveltecheck-definitely-not-a-real-binary", nil, nil, &out)
	assert.Error(t, err)
}

func TestRunWithRestartSucceedsWithoutRetryWhenFirstAttemptSucceeds(t *testing.T) {
	calls := 0
	failureDiag, err := runWithRestart(func() error {
		calls++
		return nil
	}, "test")
	require.NoError(t, err)
	assert.Nil(t, failureDiag)
	assert.Equal(t, 1, calls)
}

func TestRunWithRestartRetriesOnceThenSucceeds(t *testing.T) {
	calls := 0
	failureDiag, err := runWithRestart(func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	}, "test")
	require.NoError(t, err)
	assert.Nil(t, failureDiag)
	assert.Equal(t, 2, calls)
}

func TestRunWithRestartReportsFailureDiagnosticAfterSecondFailure(t *testing.T) {
	calls := 0
	failureDiag, err := runWithRestart(func() error {
		calls++
		return errors.New("still broken")
	}, "typescript")
	assert.Error(t, err)
	require.NotNil(t, failureDiag)
	assert.Equal(t, "collaborator-failure", failureDiag.Code)
	assert.Equal(t, 2, calls)
}
