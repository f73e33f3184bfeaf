package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		f.body, _ = io.ReadAll(params.Body)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func writeClip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rendered_video.mp4")
	if err := os.WriteFile(path, []byte("mp4 data"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPublish_Uploads(t *testing.T) {
	clip := writeClip(t)
	putter := &fakePutter{}
	p := New(putter, nil, "clips", "renders")
	p.now = func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) }

	res, err := p.Publish(t.Context(), clip)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	wantKey := "renders/2026-03-04/rendered_video.mp4"
	if res.Key != wantKey || res.Bucket != "clips" || res.URL != "" {
		t.Errorf("Publish() = %+v", res)
	}
	if aws.ToString(putter.input.Key) != wantKey || aws.ToString(putter.input.ContentType) != "video/mp4" {
		t.Errorf("PutObject input = %+v", putter.input)
	}
	if string(putter.body) != "mp4 data" {
		t.Errorf("uploaded body = %q", putter.body)
	}
}

func TestPublish_Failure(t *testing.T) {
	p := New(&fakePutter{err: errors.New("access denied")}, nil, "clips", "")
	if _, err := p.Publish(t.Context(), writeClip(t)); err == nil {
		t.Error("Publish() error = nil, want upload error")
	}
}

func TestPublish_MissingFile(t *testing.T) {
	p := New(&fakePutter{}, nil, "clips", "")
	if _, err := p.Publish(t.Context(), filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Error("Publish(missing) error = nil")
	}
}

func TestKey_NoPrefix(t *testing.T) {
	p := New(nil, nil, "clips", "")
	p.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }
	if got := p.Key("/tmp/out/a.mp4"); got != "2026-01-02/a.mp4" {
		t.Errorf("Key() = %q", got)
	}
}
