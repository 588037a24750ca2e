// Package content contains the filesystem-backed content directory of blog
// posts.
package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/golang/glog"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/dgca/paywalled-blog/pkg/model"
)

const (
	mdxExtension = ".mdx"

	frontmatterDelimiter = "---"

	postDateLayout = "2006-01-02"
)

// frontmatter is the YAML metadata block at the top of each post file
type frontmatter struct {
	ID      uint64 `yaml:"id"`
	Title   string `yaml:"title"`
	Date    string `yaml:"date"`
	Excerpt string `yaml:"excerpt"`
	Author  string `yaml:"author"`
}

// NewDirectory creates a Directory reading posts from the given path
func NewDirectory(path string) *Directory {
	return &Directory{path: path}
}

// Directory implements model.ContentDirectory over a directory of .mdx
// files with YAML frontmatter. The slug is the filename without extension;
// the frontmatter id is the key used against the entitlement oracle.
type Directory struct {
	path string
}

// PostBySlug returns the post for the given slug, or
// model.ErrDirectoryNoResults if no such post exists
func (d *Directory) PostBySlug(slug string) (*model.Post, error) {
	filePath := filepath.Join(d.path, slug+mdxExtension)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrDirectoryNoResults
		}
		return nil, errors.Wrapf(err, "Error reading post file: %v", filePath)
	}
	return parsePost(slug, string(data))
}

// AllPosts returns all posts in the directory sorted by date, newest first.
// Files that fail to parse are skipped with a logged error rather than
// failing the whole listing.
func (d *Directory) AllPosts() ([]*model.Post, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading content directory: %v", d.path)
	}

	posts := []*model.Post{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), mdxExtension) {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), mdxExtension)
		post, err := d.PostBySlug(slug)
		if err != nil {
			log.Errorf("Error parsing post %v: err: %v", slug, err)
			continue
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i int, j int) bool {
		return postDate(posts[i]).After(postDate(posts[j]))
	})
	return posts, nil
}

// parsePost splits the frontmatter block from the body and builds the Post
func parsePost(slug string, raw string) (*model.Post, error) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	if !strings.HasPrefix(normalized, frontmatterDelimiter+"\n") {
		return nil, errors.Errorf("Error no frontmatter found in post: %v", slug)
	}
	rest := normalized[len(frontmatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end < 0 {
		return nil, errors.Errorf("Error unterminated frontmatter in post: %v", slug)
	}
	head := rest[:end]
	body := rest[end+len(frontmatterDelimiter)+1:]
	body = strings.TrimLeft(body, "\n")

	fm := &frontmatter{}
	err := yaml.Unmarshal([]byte(head), fm)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing frontmatter in post: %v", slug)
	}

	return model.NewPost(&model.PostParams{
		ID:      fm.ID,
		Slug:    slug,
		Title:   fm.Title,
		Date:    fm.Date,
		Excerpt: fm.Excerpt,
		Author:  fm.Author,
		Body:    body,
	}), nil
}

func postDate(post *model.Post) time.Time {
	t, err := time.Parse(postDateLayout, post.Date())
	if err != nil {
		return time.Time{}
	}
	return t
}
