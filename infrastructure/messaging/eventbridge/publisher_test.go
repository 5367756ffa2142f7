package eventbridge

import (
	"context"
	"testing"
	"time"

	"photoshare/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAPI struct {
	requests [][]types.PutEventsRequestEntry
	failed   int32
}

func (r *recordingAPI) PutEvents(_ context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	r.requests = append(r.requests, in.Entries)
	out := &eventbridge.PutEventsOutput{FailedEntryCount: r.failed}
	for range in.Entries {
		out.Entries = append(out.Entries, types.PutEventsResultEntry{})
	}
	if r.failed > 0 {
		out.Entries[0].ErrorCode = aws.String("InternalFailure")
	}
	return out, nil
}

func TestPublishBatch_SplitsIntoRequestsOfTen(t *testing.T) {
	api := &recordingAPI{}
	p := NewPublisher(api, "bus", zap.NewNop())

	batch := make([]events.DomainEvent, 23)
	for i := range batch {
		batch[i] = events.NewPhotoLiked("p1", "u1", int64(i), time.Now())
	}
	require.NoError(t, p.PublishBatch(context.Background(), batch))

	require.Len(t, api.requests, 3)
	assert.Len(t, api.requests[0], 10)
	assert.Len(t, api.requests[2], 3)

	entry := api.requests[0][0]
	assert.Equal(t, "bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.TypePhotoLiked, aws.ToString(entry.DetailType))
	assert.Contains(t, aws.ToString(entry.Detail), `"photo_id":"p1"`)
}

func TestPublish_ReportsFailedEntries(t *testing.T) {
	api := &recordingAPI{failed: 1}
	p := NewPublisher(api, "bus", zap.NewNop())

	err := p.Publish(context.Background(), events.NewPhotoDeleted("p1", "u1", time.Now()))
	assert.Error(t, err)
}
