package mock

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client is a mock implementation of the aws.S3Client interface for
// testing. It keeps objects in memory keyed by bucket/key.
type S3Client struct {
	mu sync.Mutex
	// Maps bucket/key to object content
	Files map[string][]byte
	// Maps bucket/key to object metadata
	Metadata map[string]map[string]string
	// Keys written, in order
	PutKeys []string
	// When set, PutObject fails for keys containing this substring
	FailPutSubstring string
}

// NewS3Client creates a new mock S3 client
func NewS3Client() *S3Client {
	return &S3Client{
		Files:    make(map[string][]byte),
		Metadata: make(map[string]map[string]string),
	}
}

// AddFile seeds an object into the mock bucket.
func (m *S3Client) AddFile(bucket, key string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[bucket+"/"+key] = content
}

// GetObject returns a seeded object or an error when absent.
func (m *S3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucketKey := aws.ToString(params.Bucket) + "/" + aws.ToString(params.Key)
	content, ok := m.Files[bucketKey]
	if !ok {
		return nil, fmt.Errorf("mock S3: key not found: %s", bucketKey)
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(content)),
		ContentLength: aws.Int64(int64(len(content))),
	}, nil
}

// PutObject stores the object body and metadata in memory.
func (m *S3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := aws.ToString(params.Key)
	if m.FailPutSubstring != "" && bytes.Contains([]byte(key), []byte(m.FailPutSubstring)) {
		return nil, fmt.Errorf("mock S3: put refused for %s", key)
	}

	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}

	bucketKey := aws.ToString(params.Bucket) + "/" + key
	m.Files[bucketKey] = body
	if params.Metadata != nil {
		m.Metadata[bucketKey] = params.Metadata
	}
	m.PutKeys = append(m.PutKeys, key)

	return &s3.PutObjectOutput{}, nil
}

// Stream provides a simplified s3streamer.Streamer implementation for
// testing. It reads a seeded object line by line.
func (m *S3Client) Stream(ctx context.Context, bucket, key string, offset int64, fn func([]byte, int64) error) error {
	m.mu.Lock()
	content, ok := m.Files[bucket+"/"+key]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("mock S3: key not found: %s/%s", bucket, key)
	}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := int64(0)
	for scanner.Scan() {
		if lineNum < offset {
			lineNum++
			continue
		}
		if err := fn(scanner.Bytes(), lineNum); err != nil {
			return err
		}
		lineNum++
	}
	return scanner.Err()
}
