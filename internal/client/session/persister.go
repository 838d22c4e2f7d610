package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/senselib/f8client/internal/client/repositories/metadata"
	"github.com/senselib/f8client/internal/common"
)

// MetadataPersister stores the credential in the local metadata table: the
// token under common.MetaSessionToken and the identity as JSON under
// common.MetaIdentity.
type MetadataPersister struct {
	repo metadata.Repository
}

func NewMetadataPersister(repo metadata.Repository) *MetadataPersister {
	return &MetadataPersister{repo: repo}
}

func (p *MetadataPersister) Save(ctx context.Context, c Credential) error {
	si := storedIdentity{Identity: c.Identity}
	if !c.ExpiresAt.IsZero() {
		si.ExpiresAt = c.ExpiresAt.Unix()
	}
	b, err := json.Marshal(si)
	if err != nil {
		return err
	}
	if err := p.repo.Set(ctx, common.MetaSessionToken, c.Token); err != nil {
		return err
	}
	return p.repo.Set(ctx, common.MetaIdentity, string(b))
}

func (p *MetadataPersister) Load(ctx context.Context) (Credential, bool, error) {
	token, ok, err := p.repo.Get(ctx, common.MetaSessionToken)
	if err != nil || !ok || token == "" {
		return Credential{}, false, err
	}

	c, err := NewCredential(token)
	if err != nil {
		return Credential{}, false, nil
	}

	raw, ok, err := p.repo.Get(ctx, common.MetaIdentity)
	if err != nil {
		return Credential{}, false, err
	}
	if ok && raw != "" {
		var si storedIdentity
		if err := json.Unmarshal([]byte(raw), &si); err != nil {
			return Credential{}, false, fmt.Errorf("decode stored identity: %w", err)
		}
		c.Identity = si.Identity
		if si.ExpiresAt > 0 {
			c.ExpiresAt = time.Unix(si.ExpiresAt, 0)
		}
	}
	return c, true, nil
}

func (p *MetadataPersister) Delete(ctx context.Context) error {
	if err := p.repo.Delete(ctx, common.MetaSessionToken); err != nil {
		return err
	}
	return p.repo.Delete(ctx, common.MetaIdentity)
}

type storedIdentity struct {
	Identity
	ExpiresAt int64 `json:"expiresAt,omitempty"`
}
