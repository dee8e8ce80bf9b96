package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCloudWatch struct {
	in  *cloudwatch.PutMetricDataInput
	err error
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

type countingSink struct {
	calls int
	err   error
}

func (s *countingSink) Count(context.Context, string, float64, time.Time) error {
	s.calls++
	return s.err
}

func TestCloudWatchSink_Count(t *testing.T) {
	fake := &fakeCloudWatch{}
	sink := NewCloudWatchSink(fake, "ContactForm")
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, sink.Count(context.Background(), MessagesStored, 1, ts))

	require.NotNil(t, fake.in)
	assert.Equal(t, "ContactForm", aws.ToString(fake.in.Namespace))
	require.Len(t, fake.in.MetricData, 1)
	d := fake.in.MetricData[0]
	assert.Equal(t, "MessagesStored", aws.ToString(d.MetricName))
	assert.Equal(t, 1.0, aws.ToFloat64(d.Value))
	assert.Equal(t, types.StandardUnitCount, d.Unit)
	assert.Equal(t, ts, aws.ToTime(d.Timestamp))
	require.Len(t, d.Dimensions, 1)
	assert.Equal(t, "Pipeline", aws.ToString(d.Dimensions[0].Name))
	assert.Equal(t, "ContactForm", aws.ToString(d.Dimensions[0].Value))
}

func TestCloudWatchSink_Error(t *testing.T) {
	sink := NewCloudWatchSink(&fakeCloudWatch{err: errors.New("InvalidParameterValue")}, "ns")

	err := sink.Count(context.Background(), MessagesStored, 1, time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ns/MessagesStored")
}

func TestMulti(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := Multi{a, nil, b}

	require.NoError(t, m.Count(context.Background(), MessagesStored, 1, time.Now()))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)

	a.err = errors.New("down")
	assert.EqualError(t, m.Count(context.Background(), MessagesStored, 1, time.Now()), "down")
	assert.Equal(t, 1, b.calls)
}

func TestNewRelicSink_Disabled(t *testing.T) {
	var nilSink *NewRelicSink
	assert.NoError(t, nilSink.Count(context.Background(), MessagesStored, 1, time.Now()))
	assert.NoError(t, NewNewRelicSink(nil).Count(context.Background(), MessagesStored, 1, time.Now()))
}
