package cli

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/navigator"
)

var errAdminOnly = errors.New("admin access required")

const adminUsage = "admin <resource> [list [page]|show <id>|delete <id>]"

// Admin manages catalogue collections by name.
func (a *App) Admin(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return errAdminOnly
	}
	if len(args) == 0 {
		a.printf("Resources: %s\n", strings.Join(a.admin.Resources(), ", "))
		return nil
	}
	a.goTo(navigator.Admin)

	resource, action, rest := args[0], "list", args[1:]
	if len(rest) > 0 {
		action, rest = rest[0], rest[1:]
	}

	switch action {
	case "list":
		q := models.PageQuery{Size: pageSize}
		if len(rest) == 1 {
			n, err := strconv.Atoi(rest[0])
			if err != nil || n < 1 {
				return errUsage(adminUsage)
			}
			q.Page = n - 1
		}
		p, err := a.admin.List(ctx, resource, q)
		if err != nil {
			return err
		}
		for _, it := range p.Content {
			a.printJSON(it)
		}
		a.printf("Page %d of %d (%d items)\n", p.Number+1, max(p.TotalPages, 1), p.TotalElements)
		return nil

	case "show":
		if len(rest) != 1 {
			return errUsage(adminUsage)
		}
		it, err := a.admin.Get(ctx, resource, rest[0])
		if err != nil {
			return err
		}
		a.printJSON(it)
		return nil

	case "delete":
		if len(rest) != 1 {
			return errUsage(adminUsage)
		}
		ok, err := GetConfirm(a.reader, "Delete "+resource+" "+rest[0]+"?", a.out)
		if err != nil || !ok {
			return err
		}
		if err := a.admin.Delete(ctx, resource, rest[0]); err != nil {
			return err
		}
		a.printf("Deleted\n")
		return nil
	}
	return errUsage(adminUsage)
}

func (a *App) printJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		a.printf("%+v\n", v)
		return
	}
	a.printf("%s\n", b)
}

// Upload prompts for a document and sends its file to the backend.
func (a *App) Upload(ctx context.Context) error {
	if !a.isAdmin() {
		return errAdminOnly
	}

	var in models.DocumentUpload
	var err error
	if in.Title, err = getSimpleText(a.reader, "Enter title", a.out); err != nil {
		return err
	}
	if in.Description, err = GetMultiline(a.reader, "Enter description", a.out); err != nil {
		return err
	}
	if in.Path, err = getSimpleText(a.reader, "Enter file path", a.out); err != nil {
		return err
	}
	if in.IsPremium, err = GetConfirm(a.reader, "Premium document?", a.out); err != nil {
		return err
	}
	score, err := getSimpleText(a.reader, "Enter points cost (0 for none)", a.out)
	if err != nil {
		return err
	}
	if score != "" {
		if in.Score, err = strconv.ParseInt(score, 10, 64); err != nil {
			return errUsage("points cost is a whole number")
		}
	}
	if in.CategoryID, err = getSimpleText(a.reader, "Enter category id (optional)", a.out); err != nil {
		return err
	}
	if in.AuthorID, err = getSimpleText(a.reader, "Enter author id (optional)", a.out); err != nil {
		return err
	}

	doc, err := a.admin.Upload(ctx, in)
	if err != nil {
		return err
	}
	a.goTo(navigator.Admin)
	a.printf("Uploaded %q as document %s\n", doc.Title, doc.ID)
	return nil
}
