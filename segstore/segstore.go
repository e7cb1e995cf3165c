// Package segstore implements the object-store segment transport (component
// N): pushing a finished segment file to an S3-compatible bucket and
// reopening it for random-access chunk reads via segment.Open.
//
// Unlike the application-level store this is adapted from, a segment's own
// chunk and header encryption is already provided end to end by crypto and
// segment; segstore moves bytes, it does not wrap them in another
// encryption layer.
package segstore

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ag0st/zffgo/segment"
)

// client represents the subset of minio.Client used by this package.
// Used for dependency injection (mocking) in tests.
type client interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Connection is the minio client used across the package to talk to the
// object-store server. It may be shared across goroutines: every call
// issues an independent request, it carries no per-segment state.
type Connection struct {
	client client
}

// Connect creates a new connection to an S3-compatible endpoint.
func Connect(endpoint, accessKey, secretKey string) (*Connection, error) {
	c, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(accessKey, secretKey, ""),
	})
	if err != nil {
		return nil, err
	}
	return &Connection{client: c}, nil
}

// PutSegment uploads a finished segment file's bytes as objectName in
// bucket. minio.Client.PutObject multiparts automatically above its
// internal part-size floor (5 MiB) and falls back to a single PUT below
// it, mirroring the teacher's storeChunkWriter/storeAutoWriter split
// without needing to pick one by hand.
func (c *Connection) PutSegment(ctx context.Context, bucket, objectName string, r io.Reader, size int64) (minio.UploadInfo, error) {
	return c.client.PutObject(ctx, bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
}

// OpenSegment fetches objectName from bucket and opens it as a segment.
// minio.Object implements io.ReadSeeker (and io.ReaderAt), so it is handed
// to segment.Open directly.
func (c *Connection) OpenSegment(ctx context.Context, bucket, objectName string) (*segment.Segment, error) {
	obj, err := c.client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return segment.Open(obj)
}

// ListSegments lists the objects named "<imagePrefix>.zNN" in bucket,
// sorted by ascending segment number. It only enumerates; stitching the
// segments into one logical image stream is out of scope here.
func (c *Connection) ListSegments(ctx context.Context, bucket, imagePrefix string) ([]string, error) {
	prefix := imagePrefix + "."
	type numbered struct {
		name string
		num  int
	}
	var found []numbered

	for obj := range c.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		rest := strings.TrimPrefix(obj.Key, prefix)
		if len(rest) != 3 || rest[0] != 'z' {
			continue
		}
		num, err := strconv.Atoi(rest[1:])
		if err != nil {
			continue
		}
		found = append(found, numbered{name: obj.Key, num: num})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].num < found[j].num })

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names, nil
}
