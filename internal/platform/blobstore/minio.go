package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds the connection settings for an S3-compatible backend.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// minioBlobStore implements BlobStore over MinIO or any S3-compatible
// object store. Objects are keyed care_profile_id/attachment_id so a
// profile's attachments share a listable prefix; descriptive fields ride
// along as user metadata.
type minioBlobStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOBlobStore connects to the object store and ensures the bucket
// exists, creating it when missing.
func NewMinIOBlobStore(cfg MinIOConfig) (BlobStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioBlobStore{client: cli, bucket: cfg.Bucket}, nil
}

func objectKey(careProfileID, id string) string {
	return careProfileID + "/" + id
}

func (s *minioBlobStore) Upload(ctx context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	data, err := validateAndRead(&meta, content)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectKey(meta.CareProfileID, meta.ID),
		bytes.NewReader(data), meta.Size, minio.PutObjectOptions{
			ContentType:  meta.ContentType,
			UserMetadata: metaToUserMetadata(meta),
		})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	out := meta
	return &out, nil
}

func (s *minioBlobStore) Download(ctx context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	key, err := s.findKey(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, nil, statError(err)
	}
	meta := metaFromObjectInfo(key, st.Size, st.ContentType, st.LastModified, st.UserMetadata)
	return obj, meta, nil
}

func (s *minioBlobStore) GetMetadata(ctx context.Context, id string) (*BlobMetadata, error) {
	key, err := s.findKey(ctx, id)
	if err != nil {
		return nil, err
	}

	st, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, statError(err)
	}
	return metaFromObjectInfo(key, st.Size, st.ContentType, st.LastModified, st.UserMetadata), nil
}

func (s *minioBlobStore) Delete(ctx context.Context, id string) error {
	key, err := s.findKey(ctx, id)
	if err != nil {
		return err
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *minioBlobStore) ListByCareProfile(ctx context.Context, careProfileID, category string) ([]*BlobMetadata, error) {
	matched := []*BlobMetadata{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix: careProfileID + "/",
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		st, err := s.client.StatObject(ctx, s.bucket, obj.Key, minio.StatObjectOptions{})
		if err != nil {
			return nil, statError(err)
		}
		meta := metaFromObjectInfo(obj.Key, st.Size, st.ContentType, st.LastModified, st.UserMetadata)
		if category != "" && meta.Category != category {
			continue
		}
		matched = append(matched, meta)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return matched, nil
}

// findKey locates an attachment's object key from its ID. Keys embed the
// care profile, so an ID-only lookup scans for the suffix.
func (s *minioBlobStore) findKey(ctx context.Context, id string) (string, error) {
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return "", fmt.Errorf("list objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/"+id) {
			return obj.Key, nil
		}
	}
	return "", ErrNotFound
}

func statError(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
		return ErrNotFound
	}
	return fmt.Errorf("stat object: %w", err)
}

func metaToUserMetadata(meta BlobMetadata) map[string]string {
	return map[string]string{
		"File-Name":   meta.FileName,
		"Category":    meta.Category,
		"Hash":        meta.Hash,
		"Uploaded-By": meta.UploadedBy,
		"Created-At":  strconv.FormatInt(meta.CreatedAt.Unix(), 10),
	}
}

func metaFromObjectInfo(key string, size int64, contentType string, lastModified time.Time, userMeta map[string]string) *BlobMetadata {
	careProfileID, id := "", key
	if i := strings.IndexByte(key, '/'); i >= 0 {
		careProfileID, id = key[:i], key[i+1:]
	}

	createdAt := lastModified
	if raw := userMeta["Created-At"]; raw != "" {
		if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
			createdAt = time.Unix(sec, 0).UTC()
		}
	}

	return &BlobMetadata{
		ID:            id,
		FileName:      userMeta["File-Name"],
		ContentType:   contentType,
		Size:          size,
		CareProfileID: careProfileID,
		Category:      userMeta["Category"],
		Hash:          userMeta["Hash"],
		UploadedBy:    userMeta["Uploaded-By"],
		CreatedAt:     createdAt,
	}
}
