package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/senselib/f8client/internal/client/models"
	"github.com/tidwall/gjson"
)

func favoritePath(id string) string {
	return "/documents/" + url.PathEscape(id) + "/favorite"
}

// Favorites lists the signed-in user's favourite documents.
func (c *Client) Favorites(ctx context.Context) ([]models.Document, error) {
	b, err := c.call(ctx, http.MethodGet, "/documents/favorites", nil, nil)
	if err != nil {
		return nil, err
	}
	var docs []models.Document
	if r := gjson.ParseBytes(b); r.IsObject() && r.Get("content").IsArray() {
		err = decode([]byte(r.Get("content").Raw), &docs)
	} else {
		err = decode(b, &docs)
	}
	return docs, err
}

func (c *Client) AddFavorite(ctx context.Context, documentID string) error {
	return c.JSON(ctx, http.MethodPost, favoritePath(documentID), nil, nil, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, documentID string) error {
	return c.Delete(ctx, favoritePath(documentID))
}
