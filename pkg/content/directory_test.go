package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dgca/paywalled-blog/pkg/content"
	"github.com/dgca/paywalled-blog/pkg/model"
)

const testPostData = `---
id: 3
title: "Hello World"
date: "2025-06-01"
excerpt: "The first post"
author: "Dan"
---

# Hello

This is the paid part.
`

const olderPostData = `---
id: 1
title: "Older Post"
date: "2024-01-15"
excerpt: "An older post"
author: "Dan"
---

Older body.
`

const malformedPostData = `# No frontmatter here

Just a body.
`

func setupDirectory(t *testing.T, files map[string]string) *content.Directory {
	dir := t.TempDir()
	for name, data := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0600)
		if err != nil {
			t.Fatalf("Should have written the test post: err: %v", err)
		}
	}
	return content.NewDirectory(dir)
}

func TestPostBySlug(t *testing.T) {
	directory := setupDirectory(t, map[string]string{
		"hello-world.mdx": testPostData,
	})

	post, err := directory.PostBySlug("hello-world")
	if err != nil {
		t.Fatalf("Should have returned the post: err: %v", err)
	}
	if post.ID() != 3 {
		t.Errorf("Should have parsed the id: id: %v", post.ID())
	}
	if post.Slug() != "hello-world" {
		t.Errorf("Should have used the filename as slug: slug: %v", post.Slug())
	}
	if post.Title() != "Hello World" {
		t.Errorf("Should have parsed the title: title: %v", post.Title())
	}
	if post.Date() != "2025-06-01" {
		t.Errorf("Should have parsed the date: date: %v", post.Date())
	}
	if post.Excerpt() != "The first post" {
		t.Errorf("Should have parsed the excerpt: excerpt: %v", post.Excerpt())
	}
	if post.Author() != "Dan" {
		t.Errorf("Should have parsed the author: author: %v", post.Author())
	}
	if post.Body() == "" {
		t.Fatalf("Should have parsed the body")
	}
	if post.Body()[0] != '#' {
		t.Errorf("Should have stripped the frontmatter from the body: body: %v", post.Body())
	}
}

func TestPostBySlugNotFound(t *testing.T) {
	directory := setupDirectory(t, map[string]string{})

	_, err := directory.PostBySlug("does-not-exist")
	if err != model.ErrDirectoryNoResults {
		t.Errorf("Should have returned the no results error: err: %v", err)
	}
}

func TestAllPostsSortedNewestFirst(t *testing.T) {
	directory := setupDirectory(t, map[string]string{
		"older-post.mdx":  olderPostData,
		"hello-world.mdx": testPostData,
	})

	posts, err := directory.AllPosts()
	if err != nil {
		t.Fatalf("Should have listed the posts: err: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Should have returned both posts: got: %v", len(posts))
	}
	if posts[0].Slug() != "hello-world" {
		t.Errorf("Should have sorted newest first: first: %v", posts[0].Slug())
	}
	if posts[1].Slug() != "older-post" {
		t.Errorf("Should have sorted oldest last: last: %v", posts[1].Slug())
	}
}

func TestAllPostsSkipsMalformed(t *testing.T) {
	directory := setupDirectory(t, map[string]string{
		"hello-world.mdx": testPostData,
		"broken.mdx":      malformedPostData,
		"notes.txt":       "not a post",
	})

	posts, err := directory.AllPosts()
	if err != nil {
		t.Fatalf("Should have listed the posts: err: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("Should have skipped the malformed and non-mdx files: got: %v", len(posts))
	}
	if posts[0].Slug() != "hello-world" {
		t.Errorf("Should have kept the valid post: slug: %v", posts[0].Slug())
	}
}

func TestUnterminatedFrontmatter(t *testing.T) {
	directory := setupDirectory(t, map[string]string{
		"unterminated.mdx": "---\nid: 5\ntitle: \"Oops\"\n",
	})

	_, err := directory.PostBySlug("unterminated")
	if err == nil {
		t.Errorf("Should have returned an error for unterminated frontmatter")
	}
}
