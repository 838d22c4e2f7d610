package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/senselib/f8client/internal/client/models"
)

// FilePart is a binary attachment of a multipart form.
type FilePart struct {
	Field    string
	FileName string
	Content  io.Reader
}

// Form is a multipart form submission.
type Form struct {
	Fields map[string]string
	Files  []FilePart
}

func (f Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", err
		}
	}
	for _, fp := range f.Files {
		if fp.Content == nil {
			continue
		}
		pw, err := w.CreateFormFile(fp.Field, fp.FileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(pw, fp.Content); err != nil {
			return nil, "", fmt.Errorf("failed to attach %s: %w", fp.FileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// Multipart submits form to path and decodes the JSON answer into out.
func (c *Client) Multipart(ctx context.Context, method, path string, form Form, out any) error {
	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	b, err := c.read(req)
	if err != nil {
		return err
	}
	return decode(b, out)
}

// UploadDocument sends a document file with its metadata.
func (c *Client) UploadDocument(ctx context.Context, in models.DocumentUpload) (models.Document, error) {
	var doc models.Document

	f, err := os.Open(in.Path)
	if err != nil {
		return doc, fmt.Errorf("open %s: %w", in.Path, err)
	}
	defer f.Close()

	form := Form{
		Fields: map[string]string{
			"title":     in.Title,
			"isPremium": strconv.FormatBool(in.IsPremium),
			"score":     strconv.FormatInt(in.Score, 10),
		},
		Files: []FilePart{{Field: "file", FileName: filepath.Base(in.Path), Content: f}},
	}
	if in.Description != "" {
		form.Fields["description"] = in.Description
	}
	if in.CategoryID != "" {
		form.Fields["categoryId"] = in.CategoryID
	}
	if in.AuthorID != "" {
		form.Fields["authorId"] = in.AuthorID
	}

	err = c.Multipart(ctx, http.MethodPost, "/document/upload", form, &doc)
	return doc, err
}

// SaveBook creates (empty id) or updates a book with an optional cover.
func (c *Client) SaveBook(ctx context.Context, id string, fields map[string]string, cover *FilePart) (models.Book, error) {
	var b models.Book
	err := c.saveWithImage(ctx, "/books", id, fields, "coverImage", cover, &b)
	return b, err
}

// SaveSlide creates (empty id) or updates a slide with an optional image.
func (c *Client) SaveSlide(ctx context.Context, id string, fields map[string]string, image *FilePart) (models.Slide, error) {
	var s models.Slide
	err := c.saveWithImage(ctx, "/admin/slides", id, fields, "image", image, &s)
	return s, err
}

func (c *Client) saveWithImage(ctx context.Context, base, id string, fields map[string]string, field string, file *FilePart, out any) error {
	form := Form{Fields: fields}
	if file != nil {
		fp := *file
		if fp.Field == "" {
			fp.Field = field
		}
		form.Files = append(form.Files, fp)
	}

	method, path := http.MethodPost, base
	if id != "" {
		method, path = http.MethodPut, base+"/"+url.PathEscape(id)
	}
	return c.Multipart(ctx, method, path, form, out)
}
