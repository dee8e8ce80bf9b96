package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Every data point carries the Pipeline=ContactForm dimension.
const (
	DimensionName  = "Pipeline"
	DimensionValue = "ContactForm"
)

// CloudWatchAPI is the subset of the CloudWatch client the sink uses.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, in *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchSink writes count data points to one namespace.
type CloudWatchSink struct {
	client    CloudWatchAPI
	namespace string
}

func NewCloudWatchSink(client CloudWatchAPI, namespace string) *CloudWatchSink {
	return &CloudWatchSink{client: client, namespace: namespace}
}

func NewCloudWatchClient(cfg aws.Config) *cloudwatch.Client {
	return cloudwatch.NewFromConfig(cfg)
}

func (s *CloudWatchSink) Count(ctx context.Context, name string, value float64, ts time.Time) error {
	_, err := s.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(s.namespace),
		MetricData: []types.MetricDatum{{
			MetricName: aws.String(name),
			Timestamp:  aws.Time(ts),
			Unit:       types.StandardUnitCount,
			Value:      aws.Float64(value),
			Dimensions: []types.Dimension{{
				Name:  aws.String(DimensionName),
				Value: aws.String(DimensionValue),
			}},
		}},
	})
	if err != nil {
		return fmt.Errorf("cloudwatch put %s/%s: %w", s.namespace, name, err)
	}
	return nil
}
