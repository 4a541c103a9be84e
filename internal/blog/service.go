package blog

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type postRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	ListAll(ctx context.Context) ([]models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Save(ctx context.Context, post *models.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type likeStore interface {
	AddLike(ctx context.Context, postID, customerID string) (bool, error)
	RemoveLike(ctx context.Context, postID, customerID string) (bool, error)
	HasLiked(ctx context.Context, postID, customerID string) (bool, error)
	LikeCount(ctx context.Context, postID string) (int64, error)
}

// PostInput carries the admin-facing fields for create/update.
type PostInput struct {
	Slug      string
	Title     string
	Body      string
	Published bool
}

// PostView is a post plus its like state for the requesting customer.
type PostView struct {
	Post      models.BlogPost `json:"post"`
	Likes     int64           `json:"likes"`
	LikedByMe bool            `json:"liked_by_me"`
}

// Service exposes the public blog surface and admin post management.
type Service interface {
	PublishedPosts(ctx context.Context) ([]models.BlogPost, error)
	GetPost(ctx context.Context, slug string, customerID uuid.UUID) (*PostView, error)
	ToggleLike(ctx context.Context, postID, customerID uuid.UUID) (*PostView, error)
	ListPosts(ctx context.Context) ([]models.BlogPost, error)
	CreatePost(ctx context.Context, input PostInput) (*models.BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  postRepository
	likes likeStore
	now   func() time.Time
}

// NewService builds a blog service with the redis-backed like store.
func NewService(repo postRepository, likes likeStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	if likes == nil {
		return nil, fmt.Errorf("like store required")
	}
	return &service{
		repo:  repo,
		likes: likes,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) PublishedPosts(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	return rows, nil
}

func (s *service) GetPost(ctx context.Context, slug string, customerID uuid.UUID) (*PostView, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	post, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup post")
	}
	if !post.Published {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return s.view(ctx, post, customerID)
}

func (s *service) ToggleLike(ctx context.Context, postID, customerID uuid.UUID) (*PostView, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity missing")
	}
	post, err := s.load(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.HasLiked(ctx, post.ID.String(), customerID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check like")
	}
	if liked {
		_, err = s.likes.RemoveLike(ctx, post.ID.String(), customerID.String())
	} else {
		_, err = s.likes.AddLike(ctx, post.ID.String(), customerID.String())
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle like")
	}
	return s.view(ctx, post, customerID)
}

func (s *service) ListPosts(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	return rows, nil
}

func (s *service) CreatePost(ctx context.Context, input PostInput) (*models.BlogPost, error) {
	slug, err := validatePostInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup post")
	}

	post := &models.BlogPost{
		Slug:      slug,
		Title:     strings.TrimSpace(input.Title),
		Body:      input.Body,
		Published: input.Published,
	}
	if input.Published {
		now := s.now()
		post.PublishedAt = &now
	}
	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
	}
	return created, nil
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, input PostInput) (*models.BlogPost, error) {
	slug, err := validatePostInput(input)
	if err != nil {
		return nil, err
	}
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Slug = slug
	post.Title = strings.TrimSpace(input.Title)
	post.Body = input.Body
	if input.Published && !post.Published {
		now := s.now()
		post.PublishedAt = &now
	}
	post.Published = input.Published

	if err := s.repo.Save(ctx, post); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save post")
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	return nil
}

func (s *service) view(ctx context.Context, post *models.BlogPost, customerID uuid.UUID) (*PostView, error) {
	count, err := s.likes.LikeCount(ctx, post.ID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count likes")
	}
	view := &PostView{Post: *post, Likes: count}
	if customerID != uuid.Nil {
		liked, err := s.likes.HasLiked(ctx, post.ID.String(), customerID.String())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check like")
		}
		view.LikedByMe = liked
	}
	return view, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id is required")
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup post")
	}
	return post, nil
}

func validatePostInput(input PostInput) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugPattern.MatchString(slug) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase words joined by hyphens")
	}
	if strings.TrimSpace(input.Title) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	return slug, nil
}
