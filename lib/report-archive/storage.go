package reportarchive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"

	"work-tracker-backend/config"
	"work-tracker-backend/models"
)

// Хранилище выгрузок отчетов. Копия каждой выгрузки складывается в S3,
// чтобы бухгалтерия могла поднять отчет за прошлый период без пересборки.
type Provider interface {
	Store(ctx context.Context, spaceID string, kind models.ReportKind, ext string, body []byte) error
	MakeBucket(ctx context.Context) error
}

var Instance Provider

type impl struct {
	s3client *minio.Client
}

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

func (i impl) Store(ctx context.Context, spaceID string, kind models.ReportKind, ext string, body []byte) error {
	objectName := i.getObjectName(spaceID, kind, ext)
	reader := bytes.NewReader(body)
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, objectName, reader, int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return err
	}
	return nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	bucketName := config.Conf.S3.BucketName
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	err = i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return err
	}
	return nil
}

func (i impl) getObjectName(spaceID string, kind models.ReportKind, ext string) string {
	return fmt.Sprintf("%v/%v/%v.%v", spaceID, kind, time.Now().Format("2006-01-02T15-04-05"), ext)
}
