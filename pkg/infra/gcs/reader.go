package gcs

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

const uriScheme = "gs://"

// IsURI reports whether path is a gs://bucket/object URI
func IsURI(path string) bool {
	return strings.HasPrefix(path, uriScheme)
}

// ParseURI splits gs://bucket/object into bucket and object names
func ParseURI(uri string) (bucket, object string, err error) {
	if !IsURI(uri) {
		return "", "", goerr.New("not a gs:// URI", goerr.V("uri", uri))
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(uri, uriScheme), "/")
	if !ok || bucket == "" || object == "" {
		return "", "", goerr.New("gs:// URI must have bucket and object", goerr.V("uri", uri))
	}
	return bucket, object, nil
}

// ReadObject downloads the whole object referenced by a gs:// URI
func ReadObject(ctx context.Context, uri string, opts ...option.ClientOption) ([]byte, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	defer func() {
		_ = client.Close()
	}()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open object",
			goerr.V("bucket", bucket),
			goerr.V("object", object),
		)
	}
	defer func() {
		_ = r.Close()
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object",
			goerr.V("bucket", bucket),
			goerr.V("object", object),
		)
	}
	return data, nil
}
