package progress

import (
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerProgressReporter_NonInteractive(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := NewSpinnerProgressReporter(&out, false)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Step: "jpeg", Current: 1, Total: 2, Stage: usecase.StageDeploying, Message: "Deploying JPEG", Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Step: "jpeg", Stage: usecase.StageTransferring, Message: "Transferring ownership to DAO", Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Step: "jpeg", Stage: usecase.StageCompleted})
	r.Info("done")
	r.OnProgress(ctx, usecase.ProgressEvent{Step: "sale", Current: 2, Total: 2, Stage: usecase.StageSkipped, Message: "already owned"})

	assert.Equal(t, "[1/2] jpeg\nDeploying JPEG\nTransferring ownership to DAO\ndone\n[2/2] sale\nalready owned\n", out.String())
}

func TestSpinnerProgressReporter_Stages(t *testing.T) {
	color.NoColor = true
	r := NewSpinnerProgressReporter(&bytes.Buffer{}, false)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Step: "jpeg", Stage: usecase.StageDeploying})
	r.OnProgress(ctx, usecase.ProgressEvent{Step: "jpeg", Stage: usecase.StageDeploying})
	r.OnProgress(ctx, usecase.ProgressEvent{Step: "jpeg", Stage: usecase.StageTransferring})

	require.Len(t, r.stages, 2)
	assert.Equal(t, "completed", r.stages[0].Status)
	assert.False(t, r.stages[0].EndTime.IsZero())
	assert.Equal(t, "running", r.stages[1].Status)
	assert.Contains(t, r.display("waiting"), "✓ deploying")
	assert.Contains(t, r.display("waiting"), "● transferring")

	r.OnProgress(ctx, usecase.ProgressEvent{Step: "sale", Stage: usecase.StageDeploying})
	require.Len(t, r.stages, 1)
	assert.Equal(t, "sale", r.step)
}

func TestNopSink(t *testing.T) {
	sink := NewNopSink()
	sink.OnProgress(context.Background(), usecase.ProgressEvent{Message: "x"})
	sink.Info("x")
	sink.Error("x")
}
