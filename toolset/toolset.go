// Package toolset loads the kitchen toolset artifact that tells the
// response oracle which tools the user has available.
package toolset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"cookingagent"
)

// Source provides the raw toolset artifact bytes.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// Load reads and decodes a toolset artifact. Artifacts are JSON objects of
// the form {"available_tools": ["Knife", ...]}.
func Load(ctx context.Context, src Source) (cookingagent.ToolSet, error) {
	b, err := src.Load(ctx)
	if err != nil {
		return cookingagent.ToolSet{}, fmt.Errorf("read toolset: %w", err)
	}

	var ts cookingagent.ToolSet
	if err := json.Unmarshal(b, &ts); err != nil {
		return cookingagent.ToolSet{}, fmt.Errorf("parse toolset: %w", err)
	}
	if len(ts.AvailableTools) == 0 {
		return cookingagent.ToolSet{}, errors.New("toolset artifact has no available_tools")
	}

	return ts, nil
}

// FileSource reads the toolset artifact from the local filesystem.
type FileSource struct {
	FilePath string
}

func NewFileSource(filePath string) *FileSource {
	return &FileSource{FilePath: filePath}
}

func (f *FileSource) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.FilePath)
}

// S3Source reads the toolset artifact from S3.
type S3Source struct {
	bucket string
	key    string
	s3     *s3.Client
}

func NewS3Source(s3Client *s3.Client, bucket, key string) *S3Source {
	return &S3Source{
		bucket: bucket,
		key:    key,
		s3:     s3Client,
	}
}

func (s *S3Source) Load(ctx context.Context) ([]byte, error) {
	resp, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get toolset object from S3: %w", err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// TestSource is a simple in-memory implementation for testing.
type TestSource struct {
	data []byte
	err  error
}

func NewTestSource(data []byte) *TestSource {
	return &TestSource{data: data}
}

func NewTestSourceWithError() *TestSource {
	return &TestSource{err: errors.New("not found")}
}

func (t *TestSource) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}
