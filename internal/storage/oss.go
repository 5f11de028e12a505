package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type OSSConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	PublicBase string // optional CDN/base URL, e.g. https://cdn.example.com
}

// OSSStore stores objects in an Aliyun OSS bucket.
type OSSStore struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
}

func NewOSSStore(cfg OSSConfig, log *zap.Logger) (*OSSStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, errors.Wrap(err, "oss.New")
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "client.Bucket")
	}
	if loc, err := client.GetBucketLocation(cfg.Bucket); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 {
			log.Warn("skipping bucket location check", zap.String("bucket", cfg.Bucket), zap.String("code", se.Code))
		} else {
			return nil, errors.Wrap(err, "verify bucket")
		}
	} else {
		log.Info("object storage ready", zap.String("bucket", cfg.Bucket), zap.String("location", loc))
	}
	return &OSSStore{
		bucket:     bkt,
		endpoint:   cfg.Endpoint,
		bucketName: cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if key == "" {
		return errors.New("empty key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	err := s.bucket.PutObject(key, r,
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	)
	return errors.Wrapf(err, "put object %s", key)
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("empty key")
	}
	return errors.Wrapf(s.bucket.DeleteObject(key, oss.WithContext(ctx)), "delete object %s", key)
}

func (s *OSSStore) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}

func (s *OSSStore) List(ctx context.Context, prefix string) ([]Object, error) {
	out := []Object{}
	marker := ""
	for {
		res, err := s.bucket.ListObjects(
			oss.WithContext(ctx),
			oss.Prefix(prefix),
			oss.Marker(marker),
			oss.MaxKeys(1000),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "list objects %s", prefix)
		}
		for _, o := range res.Objects {
			out = append(out, Object{
				Key:          o.Key,
				Size:         o.Size,
				PublicURL:    s.PublicURL(o.Key),
				LastModified: o.LastModified,
			})
		}
		if !res.IsTruncated {
			return out, nil
		}
		marker = res.NextMarker
	}
}
