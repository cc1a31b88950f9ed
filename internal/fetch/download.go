package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

// Ref names a remote blob: its download URL and optionally the sha256
// the content must hash to.
type Ref struct {
	Sha256 string
	Url    string
}

// Fetch returns the path of the blob named by sha, downloading it from
// rawUrl when it is not in the store yet. When sha is empty the
// content is stored under its computed hash. Concurrent fetches of the
// same blob share one download.
func (s *Store) Fetch(ctx context.Context, sha, rawUrl string) (string, error) {
	if sha != "" && s.Has(sha) {
		return s.Path(sha), nil
	}
	if rawUrl == "" {
		return "", &NotFoundError{Key: sha}
	}

	key := sha
	if key == "" {
		key = rawUrl
	}
	path, err, _ := s.group.Do(key, func() (any, error) {
		// another flight may have finished while this one queued
		if sha != "" && s.Has(sha) {
			return s.Path(sha), nil
		}
		return s.download(ctx, sha, rawUrl)
	})
	if err != nil {
		return "", err
	}
	return path.(string), nil
}

// Prefetch downloads every URL-backed ref in parallel, so the
// sequential materialization afterwards hits only the local store.
func (s *Store) Prefetch(ctx context.Context, refs []Ref) error {
	errs, ctx := errgroup.WithContext(ctx)
	for _, ref := range refs {
		if ref.Url == "" {
			continue
		}
		ref := ref // per-iteration copy; language version predates Go 1.22 loop scoping
		errs.Go(func() error {
			_, err := s.Fetch(ctx, ref.Sha256, ref.Url)
			return err
		})
	}
	return errs.Wait()
}

// download streams the URL's body into the tmp directory, hashing as
// it writes, and moves the file into the store once the hash checks
// out.
func (s *Store) download(ctx context.Context, sha, rawUrl string) (string, error) {
	slog.Debug("downloading blob", "url", rawUrl, "sha256", sha)

	body, compressed, err := s.open(ctx, rawUrl)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var src io.Reader = body
	if compressed {
		dec, err := zstd.NewReader(body)
		if err != nil {
			return "", fmt.Errorf("create zstd reader: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	tmp, err := os.CreateTemp(s.tmpDir, "downl-*")
	if err != nil {
		return "", fmt.Errorf("create tmp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("download %s: %w", rawUrl, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	got := hex.EncodeToString(hasher.Sum(nil))
	if sha != "" && got != sha {
		return "", &IntegrityError{Url: rawUrl, Want: sha, Got: got}
	}

	path := s.Path(got)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move blob into store: %w", err)
	}
	return path, nil
}

// open starts the transfer and reports whether the body is
// zstd-compressed. S3-style URLs go through the S3 client, everything
// else over plain HTTP.
func (s *Store) open(ctx context.Context, rawUrl string) (io.ReadCloser, bool, error) {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return nil, false, fmt.Errorf("parse url %s: %w", rawUrl, err)
	}
	compressed := filepath.Ext(u.Path) == ".zst"

	if bucket, key, ok := parseS3Url(u); ok {
		if s.s3Client == nil {
			return nil, false, fmt.Errorf("no s3 client configured for %s", rawUrl)
		}
		obj, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, false, fmt.Errorf("download %s from s3 (bucket %s, key %s): %w", rawUrl, bucket, key, err)
		}
		if obj.ContentType != nil && *obj.ContentType == "application/zstd" {
			compressed = true
		}
		return obj.Body, compressed, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawUrl, nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("download %s: %w", rawUrl, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, false, fmt.Errorf("download %s: unexpected status %s", rawUrl, resp.Status)
	}
	if resp.Header.Get("Content-Type") == "application/zstd" {
		compressed = true
	}
	return resp.Body, compressed, nil
}

// parseS3Url recognizes s3://bucket/key and the virtual-hosted style
// https://bucket.s3.region.amazonaws.com/key.
func parseS3Url(u *url.URL) (bucket, key string, ok bool) {
	if u.Scheme == "s3" {
		return u.Host, strings.TrimPrefix(u.Path, "/"), true
	}
	if u.Scheme == "https" {
		hostParts := strings.Split(u.Host, ".")
		if len(hostParts) >= 3 && hostParts[1] == "s3" && strings.HasSuffix(u.Host, ".amazonaws.com") {
			return hostParts[0], strings.TrimPrefix(u.Path, "/"), true
		}
	}
	return "", "", false
}
