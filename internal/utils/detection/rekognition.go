package detection

import (
	"context"
	"fmt"

	"zipli-backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

const (
	maxLabels     = 5
	minConfidence = 75
)

type (
	// LabelDetector names the food shown in an image stored in the bucket.
	LabelDetector interface {
		DetectFoodLabels(ctx context.Context, bucket, objectKey string) ([]string, error)
	}

	rekognitionDetector struct {
		client *rekognition.Client
	}
)

func NewRekognitionDetector(ctx context.Context) (LabelDetector, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(utils.GetConfig("AWS_S3_REGION"))}
	if key := utils.GetConfig("AWS_ACCESS_KEY"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &rekognitionDetector{client: rekognition.NewFromConfig(cfg)}, nil
}

func (r *rekognitionDetector) DetectFoodLabels(ctx context.Context, bucket, objectKey string) ([]string, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(objectKey),
			},
		},
		MaxLabels:     aws.Int32(maxLabels),
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	labels := make([]string, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name != nil {
			labels = append(labels, *l.Name)
		}
	}
	return labels, nil
}
