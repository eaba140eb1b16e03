// Package netx uploads object bytes to presigned storage URLs.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPClient is the subset of *http.Client used for uploads.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// PutPresigned PUTs data to a presigned URL with the given content type.
// Any 2xx status is success; otherwise the status and up to 1 KiB of the
// response body are returned in the error.
func PutPresigned(ctx context.Context, c HTTPClient, url string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(data))

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
