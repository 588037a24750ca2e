// Package model contains the general data models and interfaces for the
// paywalled blog gateway.
package model

// ContentRef identifies a single content item. The numeric ID is the key
// used against the entitlement oracle, the slug is the key used against the
// content directory. Both are assigned by the directory and immutable for
// the lifetime of the content item.
type ContentRef struct {
	id   uint64
	slug string
}

// NewContentRef is a convenience method to init a ContentRef
func NewContentRef(id uint64, slug string) ContentRef {
	return ContentRef{id: id, slug: slug}
}

// ID returns the contract content ID
func (c ContentRef) ID() uint64 {
	return c.id
}

// Slug returns the human-facing slug for this content item
func (c ContentRef) Slug() string {
	return c.slug
}

// PostParams are the params to initialize a new Post
type PostParams struct {
	ID      uint64
	Slug    string
	Title   string
	Date    string
	Excerpt string
	Author  string
	Body    string
}

// NewPost is a convenience method to init a Post struct
func NewPost(params *PostParams) *Post {
	return &Post{
		id:      params.ID,
		slug:    params.Slug,
		title:   params.Title,
		date:    params.Date,
		excerpt: params.Excerpt,
		author:  params.Author,
		body:    params.Body,
	}
}

// Post represents a single blog post from the content directory
type Post struct {
	id uint64

	slug string

	title string

	date string

	excerpt string

	author string

	// body is the raw markdown body. It must never be handed to a reader
	// whose entitlement has not been positively confirmed.
	body string
}

// ID returns the contract content ID for this post
func (p *Post) ID() uint64 {
	return p.id
}

// Slug returns the slug for this post
func (p *Post) Slug() string {
	return p.slug
}

// Title returns the post title
func (p *Post) Title() string {
	return p.title
}

// Date returns the publish date string of the post
func (p *Post) Date() string {
	return p.date
}

// Excerpt returns the free preview text of the post
func (p *Post) Excerpt() string {
	return p.excerpt
}

// Author returns the post author byline
func (p *Post) Author() string {
	return p.author
}

// Body returns the full raw markdown body of the post
func (p *Post) Body() string {
	return p.body
}

// ContentRef returns the ContentRef identifying this post
func (p *Post) ContentRef() ContentRef {
	return NewContentRef(p.id, p.slug)
}

// ContentDirectory is the interface to the store of blog posts. The gateway
// only needs the post metadata for listings and the ID for oracle calls;
// bodies are gated behind the access state machine.
type ContentDirectory interface {
	// PostBySlug returns the post for the given slug, or
	// ErrDirectoryNoResults if no such post exists
	PostBySlug(slug string) (*Post, error)
	// AllPosts returns all posts sorted by date, newest first
	AllPosts() ([]*Post, error)
}
