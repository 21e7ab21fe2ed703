package storage

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/opdss/dataexporter/contracts/storage"
)

/*
* S3 OSS
* Document: https://github.com/awsdocs/aws-doc-sdk-examples/blob/main/gov2/s3
 */

type S3Config struct {
	AccessKeyId     string `help:"accessKeyId" default:""`
	AccessKeySecret string `help:"accessKeySecret" default:""`
	Bucket          string `help:"存储桶" default:""`
	Region          string `help:"地区" default:""`
	Url             string `help:"访问地址" default:""`
	Endpoint        string `help:"api入口" default:""`
	PathStyle       bool   `help:"使用path方式访问bucket,minio需要开启" default:"false"`
}

var _ storage.FileSystem = (*S3)(nil)

// S3 导出文件上传到s3兼容的对象存储
type S3 struct {
	config   S3Config
	instance *s3.Client
}

func NewS3(config S3Config) (*S3, error) {
	if config.AccessKeyId == "" || config.AccessKeySecret == "" || config.Endpoint == "" || config.Bucket == "" {
		return nil, ErrStorage.New("please set s3 configuration")
	}
	cfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(config.AccessKeyId, config.AccessKeySecret, "")),
		awsConfig.WithRegion(config.Region),
	)
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	if config.Url == "" {
		config.Url = strings.TrimSuffix(config.Endpoint, "/") + "/" + config.Bucket
	}
	config.Url = strings.TrimSuffix(config.Url, "/")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(config.Endpoint)
		o.UsePathStyle = config.PathStyle
	})
	return &S3{
		config:   config,
		instance: client,
	}, nil
}

func (r *S3) Delete(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	objects := make([]types.ObjectIdentifier, len(files))
	for i, file := range files {
		objects[i] = types.ObjectIdentifier{Key: aws.String(r.key(file))}
	}
	_, err := r.instance.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(r.config.Bucket),
		Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	return ErrStorage.Wrap(err)
}

func (r *S3) Exists(ctx context.Context, file string) bool {
	_, err := r.head(ctx, file)
	return err == nil
}

func (r *S3) Get(ctx context.Context, file string) ([]byte, error) {
	resp, err := r.instance.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(r.key(file)),
	})
	if err != nil {
		return nil, ErrStorage.Wrap(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return io.ReadAll(resp.Body)
}

func (r *S3) MimeType(ctx context.Context, file string) (string, error) {
	resp, err := r.head(ctx, file)
	if err != nil {
		return "", err
	}
	return aws.ToString(resp.ContentType), nil
}

func (r *S3) Put(ctx context.Context, file string, content []byte) error {
	_, err := r.instance.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.config.Bucket),
		Key:           aws.String(r.key(file)),
		Body:          bytes.NewReader(content),
		ContentLength: aws.Int64(int64(len(content))),
		ContentType:   aws.String(contentType(file, content)),
	})
	return ErrStorage.Wrap(err)
}

func (r *S3) PutStream(ctx context.Context, file string, rs io.Reader) error {
	content, err := io.ReadAll(rs)
	if err != nil {
		return ErrStorage.Wrap(err)
	}
	return r.Put(ctx, file, content)
}

func (r *S3) Size(ctx context.Context, file string) (int64, error) {
	resp, err := r.head(ctx, file)
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(resp.ContentLength), nil
}

func (r *S3) Url(file string) string {
	return r.config.Url + "/" + r.key(file)
}

func (r *S3) head(ctx context.Context, file string) (*s3.HeadObjectOutput, error) {
	resp, err := r.instance.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.config.Bucket),
		Key:    aws.String(r.key(file)),
	})
	return resp, ErrStorage.Wrap(err)
}

func (r *S3) key(file string) string {
	return strings.TrimPrefix(file, "/")
}
