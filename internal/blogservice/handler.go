package blogservice

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sushihentaime/inkwell/internal/common"
)

// DefaultLatestLimit is the page size of the latest blogs listing.
const DefaultLatestLimit = 5

// NewBlogService builds the service. The cache may be nil.
func NewBlogService(m *BlogModel, c common.Cache, logger *slog.Logger) *BlogService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &BlogService{c: c, logger: logger, sanitizer: newContentPolicy()}
	if m != nil {
		s.m = m
	}

	return s
}

// Publish validates and stores a blog for authorID and returns its id.
func (s *BlogService) Publish(ctx context.Context, authorID uuid.UUID, in *PublishRequest) (string, error) {
	req := *in
	req.Title = stripMarkup(in.Title)
	req.Des = stripMarkup(in.Des)
	req.Tags = normalizeTags(in.Tags)

	v := common.NewValidator()
	validateBlog(v, &req)
	if !v.Valid() {
		return "", v.ValidationError()
	}

	id, err := newBlogID(req.Title)
	if err != nil {
		return "", err
	}

	content, err := sanitizeContent(s.sanitizer, req.Content)
	if err != nil {
		return "", err
	}

	b := Blog{
		ID:          id,
		Title:       req.Title,
		Banner:      req.Banner,
		Des:         req.Des,
		Content:     content,
		Tags:        req.Tags,
		Author:      authorID,
		Draft:       req.Draft,
		PublishedAt: time.Now().UTC(),
	}

	if err := s.m.publish(ctx, &b); err != nil {
		return "", err
	}

	if !b.Draft {
		s.invalidateLatest(ctx)
	}

	return b.ID, nil
}

// LatestBlogs returns up to limit published blogs, newest first. Only the default page is cached.
func (s *BlogService) LatestBlogs(ctx context.Context, limit int) ([]BlogSummary, error) {
	if limit < 1 {
		limit = DefaultLatestLimit
	}

	cacheable := s.c != nil && limit == DefaultLatestLimit
	key := common.CacheKeyLatestBlogs(limit)

	if cacheable {
		var cached []BlogSummary
		found, err := s.c.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("failed to read latest blogs from cache", "error", err)
		}
		if found {
			return cached, nil
		}
	}

	gen := s.latestGeneration()

	blogs, err := s.m.latest(ctx, limit)
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []BlogSummary{}
	}

	if cacheable {
		s.cacheLatest(ctx, key, gen, blogs)
	}

	return blogs, nil
}

func (s *BlogService) latestGeneration() uint64 {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	return s.generation
}

// cacheLatest stores blogs unless a publish invalidated the page after they were read.
func (s *BlogService) cacheLatest(ctx context.Context, key string, gen uint64, blogs []BlogSummary) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.generation != gen {
		return
	}

	if err := s.c.Set(ctx, key, blogs); err != nil {
		s.logger.Warn("failed to cache latest blogs", "error", err)
	}
}

func (s *BlogService) invalidateLatest(ctx context.Context) {
	if s.c == nil {
		return
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.generation++
	if err := s.c.Delete(ctx, common.CacheKeyLatestBlogs(DefaultLatestLimit)); err != nil {
		s.logger.Warn("failed to invalidate latest blogs cache", "error", err)
	}
}
