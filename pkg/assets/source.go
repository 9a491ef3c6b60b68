package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Source loads a manifest from wherever the build collaborator put it.
// Production deploys use FileSource or S3Source; development uses
// DevSource pointed at the asset dev server.
type Source interface {
	Load(ctx context.Context) (*Manifest, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (*Manifest, error)

// Load implements Source.
func (f SourceFunc) Load(ctx context.Context) (*Manifest, error) { return f(ctx) }

// Static wraps an already-built manifest as a Source.
func Static(m *Manifest) Source {
	return SourceFunc(func(context.Context) (*Manifest, error) { return m, nil })
}

// FileSource loads the manifest from a local manifest.json.
type FileSource struct {
	Path string
}

// Load implements Source.
func (s FileSource) Load(context.Context) (*Manifest, error) {
	return LoadFile(s.Path)
}

// DevSource queries a running asset dev server for the current manifest.
// Availability is the caller's concern: during manifest queries an
// unavailable dev server is treated as an empty patch, during page
// requests it is fatal.
type DevSource struct {
	// URL is the manifest endpoint, e.g. "http://localhost:8002/manifest.json".
	URL string

	// Client is the HTTP client to use. Defaults to a client with a
	// short timeout; a hung dev server should not hang manifest queries.
	Client *http.Client
}

// Load implements Source.
func (s DevSource) Load(ctx context.Context) (*Manifest, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asset dev server unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset dev server returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// S3Source loads the manifest object a deploy wrote to S3.
//
//	client := s3.New(s3.Options{Region: "us-east-1"})
//	src := assets.S3Source{Client: client, Bucket: "my-app-builds", Key: "manifest.json"}
type S3Source struct {
	Client *s3.Client
	Bucket string
	Key    string
}

// Load implements Source.
func (s S3Source) Load(ctx context.Context) (*Manifest, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching manifest s3://%s/%s: %w", s.Bucket, s.Key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
