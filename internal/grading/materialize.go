package grading

import (
	"context"
	"fmt"

	"github.com/programme-lv/grader"
	"github.com/programme-lv/grader/internal/activity"
	"github.com/programme-lv/grader/internal/fetch"
)

// materialize turns a wire request into a local activity definition:
// every referenced file ends up as a path into the content-addressed
// store. URL-backed files are prefetched in parallel first, so the
// per-file resolution below hits the store.
func (s *Service) materialize(ctx context.Context, req grader.GradeReq) (activity.Definition, error) {
	def := activity.Definition{
		EntryPoint: req.Activity.EntryPoint,
		WorkerName: req.Activity.Worker,
		Question:   req.Activity.Question,
		InputFiles: req.Inputs,
	}
	if s.store == nil {
		return def, fmt.Errorf("grading service has no file store")
	}

	refs := make([]fetch.Ref, 0, len(req.Activity.Skeleton)+2)
	collect := func(f *grader.ReqFile) {
		if f != nil && f.Url != nil {
			refs = append(refs, fetch.Ref{Sha256: strOrEmpty(f.Sha256), Url: *f.Url})
		}
	}
	for i := range req.Activity.Skeleton {
		collect(&req.Activity.Skeleton[i])
	}
	collect(req.Activity.Context)
	collect(req.Activity.SuiteFile)
	if err := s.store.Prefetch(ctx, refs); err != nil {
		return def, fmt.Errorf("prefetch request files: %w", err)
	}

	skeleton := make(map[string]string, len(req.Activity.Skeleton))
	for _, f := range req.Activity.Skeleton {
		path, err := s.fileToPath(ctx, f)
		if err != nil {
			return def, fmt.Errorf("skeleton file %s: %w", f.Fname, err)
		}
		skeleton[f.Fname] = path
	}
	def.SkeletonFiles = skeleton

	if f := req.Activity.Context; f != nil {
		path, err := s.fileToPath(ctx, *f)
		if err != nil {
			return def, fmt.Errorf("context file %s: %w", f.Fname, err)
		}
		def.ContextPath = path
	}

	if f := req.Activity.SuiteFile; f != nil {
		path, err := s.fileToPath(ctx, *f)
		if err != nil {
			return def, fmt.Errorf("suite file %s: %w", f.Fname, err)
		}
		def.SuiteSource = path
	} else {
		def.SuiteSource = req.Activity.Suite
	}

	return def, nil
}

// fileToPath resolves one request file to its path in the store.
// Inline content is written through Put; everything else goes through
// Fetch, which covers already-stored blobs and downloads alike.
func (s *Service) fileToPath(ctx context.Context, f grader.ReqFile) (string, error) {
	if f.Content != nil {
		sha, err := s.store.Put([]byte(*f.Content))
		if err != nil {
			return "", err
		}
		return s.store.Path(sha), nil
	}
	if f.Sha256 == nil && f.Url == nil {
		return "", fmt.Errorf("file %s provides no content, url, or sha256", f.Fname)
	}
	return s.store.Fetch(ctx, strOrEmpty(f.Sha256), strOrEmpty(f.Url))
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
