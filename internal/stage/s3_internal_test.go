package stage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type fakeS3 struct {
	pages   []*awss3.ListObjectsV2Output
	listErr error
	calls   int
	present map[string]bool
	putErr  error
	puts    []string
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *awss3.ListObjectsV2Input, _ ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.calls > 0 && aws.ToString(in.ContinuationToken) == "" {
		return nil, errors.New("missing continuation token")
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *awss3.HeadObjectInput, _ ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error) {
	if f.present[aws.ToString(in.Key)] {
		return &awss3.HeadObjectOutput{}, nil
	}
	return nil, &types.NotFound{}
}

func (f *fakeS3) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	if aws.ToString(in.IfNoneMatch) != "*" {
		return nil, errors.New("conditional put expected")
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, aws.ToString(in.Key))
	return &awss3.PutObjectOutput{}, nil
}

func TestS3StageListPaginates(t *testing.T) {
	now := time.Now().UTC()
	fake := &fakeS3{pages: []*awss3.ListObjectsV2Output{
		{
			Contents: []types.Object{
				{Key: aws.String("media/a.mp3"), Size: aws.Int64(10), ETag: aws.String(`"e1"`), LastModified: &now},
				{Key: aws.String("media/")},
			},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{Contents: []types.Object{{Key: aws.String("media/b.wav"), Size: aws.Int64(20)}}},
	}}
	st := newS3Stage(fake, "bucket", "/media/")

	objects, err := st.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(objects) != 2 || objects[0].Checksum != "e1" || objects[1].BaseName() != "b.wav" {
		t.Fatalf("unexpected objects %+v", objects)
	}
	if st.Name() != "s3://bucket/media" {
		t.Fatalf("Name = %q", st.Name())
	}
}

func TestS3StagePutStatuses(t *testing.T) {
	file := filepath.Join(t.TempDir(), "c.mp4")
	if err := os.WriteFile(file, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	fake := &fakeS3{present: map[string]bool{}}
	st := newS3Stage(fake, "bucket", "media")
	if status, err := st.Put(ctx, file); err != nil || status != StatusUploaded {
		t.Fatalf("put = %s %v", status, err)
	}
	if len(fake.puts) != 1 || fake.puts[0] != "media/c.mp4" {
		t.Fatalf("unexpected puts %v", fake.puts)
	}

	fake.present["media/c.mp4"] = true
	if status, err := st.Put(ctx, file); err != nil || status != StatusSkipped {
		t.Fatalf("existing put = %s %v", status, err)
	}

	race := &fakeS3{present: map[string]bool{}, putErr: &smithy.GenericAPIError{Code: "PreconditionFailed"}}
	if status, err := newS3Stage(race, "bucket", "").Put(ctx, file); err != nil || status != StatusSkipped {
		t.Fatalf("precondition put = %s %v", status, err)
	}

	broken := &fakeS3{present: map[string]bool{}, putErr: errors.New("boom")}
	if status, err := newS3Stage(broken, "bucket", "").Put(ctx, file); err == nil || status != StatusError {
		t.Fatalf("failed put = %s %v", status, err)
	}
}
