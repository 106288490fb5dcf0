package jobs

import (
	"context"
	"errors"
	"testing"

	"outreach-server/internal/observability"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Queue: QueueHigh, Type: task.Type()}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestClient_EnqueueCampaignDispatch(t *testing.T) {
	t.Run("enqueues a dispatch task carrying the campaign id", func(t *testing.T) {
		fake := &fakeEnqueuer{}
		client := &Client{client: fake, logger: observability.NewNopLogger()}
		campaignID := uuid.New()

		require.NoError(t, client.EnqueueCampaignDispatch(context.Background(), campaignID))
		require.Len(t, fake.tasks, 1)
		assert.Equal(t, TypeCampaignDispatch, fake.tasks[0].Type())

		payload, err := ParseDispatchPayload(fake.tasks[0])
		require.NoError(t, err)
		assert.Equal(t, campaignID, payload.CampaignID)
	})

	t.Run("enqueue failure is returned", func(t *testing.T) {
		fake := &fakeEnqueuer{err: errors.New("redis down")}
		client := &Client{client: fake, logger: observability.NewNopLogger()}

		err := client.EnqueueCampaignDispatch(context.Background(), uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis down")
	})
}

func TestParseDispatchPayload_Invalid(t *testing.T) {
	_, err := ParseDispatchPayload(asynq.NewTask(TypeCampaignDispatch, []byte("{not json")))
	assert.Error(t, err)
}

func TestAsynqLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	exitCode := -1
	l := &asynqLogger{logger: observability.NewWithZap(zap.New(core)), exit: func(code int) { exitCode = code }}

	l.Info("server ", "started")
	l.Warn("retrying")
	l.Fatal("boom")

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "server started", logs.All()[0].Message)
	assert.Equal(t, zap.WarnLevel, logs.All()[1].Level)
	assert.Equal(t, zap.ErrorLevel, logs.All()[2].Level)
	assert.Equal(t, 1, exitCode)
}
