package oss

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

// OSSService wraps one bucket of the object store. The application never
// streams object bytes through itself; uploads go direct via presigned PUT
// URLs, and the only server-side operations are sign + delete.
type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	BucketName string
	PublicBase string // e.g. https://bucket.oss-region.aliyuncs.com
}

func NewOSSServiceFromEnv() (*OSSService, error) {
	endpoint := getEnv("OSS_ENDPOINT")
	ak := getEnv("OSS_ACCESS_KEY_ID")
	sk := getEnv("OSS_ACCESS_KEY_SECRET")
	sts := getEnv("OSS_SECURITY_TOKEN")
	bucketName := getEnv("OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: OSS_ENDPOINT/OSS_ACCESS_KEY_ID/OSS_ACCESS_KEY_SECRET/OSS_BUCKET")
	}

	var (
		client *oss.Client
		err    error
	)
	if sts != "" {
		client, err = oss.New(endpoint, ak, sk, oss.SecurityToken(sts))
	} else {
		client, err = oss.New(endpoint, ak, sk)
	}
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}

	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	if loc, err := client.GetBucketLocation(bucketName); err != nil {
		if se, ok := err.(oss.ServiceError); ok && se.StatusCode == 403 && se.Code == "AccessDenied" {
			log.Printf("[OSS] warn: skip location check due to AccessDenied (bucket=%s). Continuing.", bucketName)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", bucketName, loc)
	}

	publicBase := getEnv("OSS_PUBLIC_BASE_URL")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.%s", bucketName, strings.TrimPrefix(endpoint, "https://"))
	}

	return &OSSService{
		Client:     client,
		Bucket:     bkt,
		BucketName: bucketName,
		PublicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

// PublicURL maps an object key to its public (or CDN) URL.
func (s *OSSService) PublicURL(objectKey string) string {
	return s.PublicBase + "/" + strings.TrimLeft(objectKey, "/")
}

// DeleteObject removes one object; used when an admin deletes an application
// together with its attachments.
func (s *OSSService) DeleteObject(objectKey string) error {
	return s.Bucket.DeleteObject(objectKey)
}

// UploadBytes writes server-produced bytes (course cover images after WebP
// conversion). Applicant attachments never take this path; they go direct
// via presigned PUT.
func (s *OSSService) UploadBytes(objectKey, contentType string, data []byte) (string, error) {
	if err := s.Bucket.PutObject(objectKey, bytes.NewReader(data), oss.ContentType(contentType)); err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return s.PublicURL(objectKey), nil
}
