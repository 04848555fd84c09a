package blogservice

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/sushihentaime/inkwell/internal/common"
)

type Blog struct {
	ID          string    `json:"blog_id"`
	Title       string    `json:"title"`
	Banner      string    `json:"banner"`
	Des         string    `json:"des"`
	Content     Content   `json:"content"`
	Tags        []string  `json:"tags"`
	Author      uuid.UUID `json:"author"`
	Activity    Activity  `json:"activity"`
	Draft       bool      `json:"draft"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Content is an editor document: an ordered list of blocks whose data is opaque to the server.
type Content struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (c Content) Value() (driver.Value, error) {
	if c.Blocks == nil {
		c.Blocks = []Block{}
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Content) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = Content{}
		return nil
	default:
		return errors.New("content: unsupported source type")
	}
}

type Activity struct {
	TotalLikes          int `json:"total_likes"`
	TotalComments       int `json:"total_comments"`
	TotalReads          int `json:"total_reads"`
	TotalParentComments int `json:"total_parent_comments"`
}

type AuthorProfile struct {
	ProfileImg string `json:"profile_img"`
	Username   string `json:"username"`
	Fullname   string `json:"fullname"`
}

type AuthorInfo struct {
	PersonalInfo AuthorProfile `json:"personal_info"`
}

// BlogSummary is the card view of a published blog.
type BlogSummary struct {
	ID          string     `json:"blog_id"`
	Title       string     `json:"title"`
	Des         string     `json:"des"`
	Banner      string     `json:"banner"`
	Activity    Activity   `json:"activity"`
	Tags        []string   `json:"tags"`
	PublishedAt time.Time  `json:"publishedAt"`
	Author      AuthorInfo `json:"author"`
}

type PublishRequest struct {
	Title   string   `json:"title"`
	Banner  string   `json:"banner"`
	Des     string   `json:"des"`
	Content Content  `json:"content"`
	Tags    []string `json:"tags"`
	Draft   bool     `json:"draft"`
}

// AuthorCounter updates the author aggregate inside the publish transaction.
type AuthorCounter interface {
	IncrementPostCount(ctx context.Context, tx *sql.Tx, userID uuid.UUID, blogID string, delta int) (int, error)
}

type BlogModel struct {
	db      *sql.DB
	authors AuthorCounter
}

type BlogService struct {
	m         blogStore
	c         common.Cache
	logger    *slog.Logger
	sanitizer *bluemonday.Policy

	// generation counts invalidations of the latest page so a read that raced a publish is not cached
	cacheMu    sync.Mutex
	generation uint64
}
