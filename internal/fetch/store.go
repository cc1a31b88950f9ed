// Package fetch is the content-addressed file store grading requests
// are materialized through. Blobs are stored under their sha256 and
// arrive either inline, over HTTP, or from S3; zstd-compressed blobs
// are decompressed on the way in.
package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"
)

// NotFoundError reports a blob that is neither in the store nor
// obtainable from the given reference.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blob %s not found in store", e.Key)
}

// IntegrityError reports a downloaded blob whose content does not
// match its declared sha256.
type IntegrityError struct {
	Url  string
	Want string
	Got  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %s: want sha256 %s, got %s", e.Url, e.Want, e.Got)
}

// Store keeps blobs under blobDir named by their sha256. Downloads
// land in tmpDir first and are renamed into place once verified, so a
// blob that exists is always complete. All methods are safe for
// concurrent use.
type Store struct {
	blobDir string
	tmpDir  string

	httpClient *http.Client
	s3Client   *s3.Client

	// group collapses concurrent fetches of the same blob into one
	// download.
	group singleflight.Group
}

type Option func(*Store)

// WithS3 enables downloads from S3-style URLs.
func WithS3(client *s3.Client) Option {
	return func(s *Store) { s.s3Client = client }
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) { s.httpClient = client }
}

// New opens (creating if needed) a store rooted at dir.
func New(dir string, opts ...Option) (*Store, error) {
	s := &Store{
		blobDir:    filepath.Join(dir, "blobs"),
		tmpDir:     filepath.Join(dir, "tmp"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := os.MkdirAll(s.blobDir, 0755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}
	if err := os.MkdirAll(s.tmpDir, 0755); err != nil {
		return nil, fmt.Errorf("create tmp directory: %w", err)
	}
	return s, nil
}

// Path returns where the blob with the given sha256 lives. The blob
// may not exist yet; see Has.
func (s *Store) Path(sha string) string {
	return filepath.Join(s.blobDir, sha)
}

// Has reports whether the blob is already in the store.
func (s *Store) Has(sha string) bool {
	_, err := os.Stat(s.Path(sha))
	return err == nil
}

// Put writes content into the store and returns its sha256.
func (s *Store) Put(content []byte) (string, error) {
	sum := sha256.Sum256(content)
	sha := hex.EncodeToString(sum[:])
	if s.Has(sha) {
		return sha, nil
	}

	tmp, err := os.CreateTemp(s.tmpDir, "put-*")
	if err != nil {
		return "", fmt.Errorf("create tmp file: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), s.Path(sha)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("move blob into store: %w", err)
	}
	return sha, nil
}

// Get reads a blob by sha256.
func (s *Store) Get(sha string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(sha))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Key: sha}
		}
		return nil, fmt.Errorf("read blob %s: %w", sha, err)
	}
	return data, nil
}
