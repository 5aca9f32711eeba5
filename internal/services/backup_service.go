package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	appconfig "caja-backend/internal/config"
	"caja-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// BackupService uploads a JSON snapshot of a closed register to an
// S3-compatible bucket. Only explicit closes export; the stale-register
// sweep never does.
type BackupService struct {
	cfg *appconfig.Config
	Log *logrus.Logger
}

func NewBackupService(cfg *appconfig.Config, log *logrus.Logger) *BackupService {
	if !cfg.Backup.Enabled {
		return nil
	}
	return &BackupService{cfg: cfg, Log: log}
}

func (s *BackupService) ExportRegister(ctx context.Context, dc *models.DailyCash) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	body, err := json.MarshalIndent(dc, "", "  ")
	if err != nil {
		s.Log.Errorf("[Backup] failed to serialize register %s: %v", dc.Date, err)
		return
	}

	client, err := s.newClient(ctx)
	if err != nil {
		s.Log.Errorf("[Backup] failed to configure client: %v", err)
		return
	}

	key := fmt.Sprintf("registers/caja_%s_%s.json", dc.Date, time.Now().Format("20060102_150405"))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Backup.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.Log.Errorf("[Backup] failed to upload register %s: %v", dc.Date, err)
		return
	}
	s.Log.Infof("[Backup] exported register %s as %s (%d bytes)", dc.Date, key, len(body))
}

func (s *BackupService) newClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Backup.AccessKey,
			s.cfg.Backup.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Backup.Region),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Backup.Endpoint)
		}
	}), nil
}
