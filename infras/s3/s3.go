package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"pms/config"
	"pms/infras/otel"
	"pms/shared/constant"
)

const (
	otelAttrFileName = "file_name"
	otelAttrBucket   = "bucket"
	otelAttrSize     = "size"
)

// Storage keeps generated files in an S3 compatible bucket and hands back their public URL.
type Storage interface {
	Upload(ctx context.Context, directory, fileName, contentType string, data []byte) (url string, err error)
}

type storageImpl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func (svc *storageImpl) Upload(ctx context.Context, directory, fileName, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrFileName: fileName,
		otelAttrBucket:   bucket,
		otelAttrSize:     len(data),
	})

	objectKey := path.Join(directory, fileName)
	body := bytes.NewReader(data)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(body.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.publicURL(bucket, objectKey), nil
}

// publicURL prefers the public domain and falls back to the path style API URL.
func (svc *storageImpl) publicURL(bucket, objectKey string) string {
	if publicDomain := svc.config.External.S3.PublicDomain; publicDomain != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(publicDomain, "/"), objectKey)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(svc.config.External.S3.APIEndpoint, "/"), bucket, objectKey)
}

func New(config *config.Config, otel otel.Otel) Storage {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(config.External.S3.Region),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := config.External.S3.APIEndpoint; endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}

		o.UsePathStyle = true
		o.Region = config.External.S3.Region
	})

	return &storageImpl{
		client: client,
		config: config,
		otel:   otel,
	}
}
