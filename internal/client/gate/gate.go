// Package gate decides whether a document may be released to the current
// identity and charges its point cost exactly once.
//
// Every attempt walks Start, CheckIdentity, CheckBalance, Deduct and Fetch in
// that order and ends in one of four results: denied because nobody is
// signed in, denied for lack of points, released, or charged but not
// delivered. The charge always commits before any content is fetched.
package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/senselib/f8client/internal/client/content"
	"github.com/senselib/f8client/internal/client/ledger"
	"github.com/senselib/f8client/internal/client/models"
	"github.com/senselib/f8client/internal/client/session"
	"github.com/senselib/f8client/internal/common"
	"github.com/senselib/f8client/internal/logging"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotAuthenticated    = errors.New("login required to download this document")
	ErrInsufficientBalance = errors.New("not enough points to download this document")
	ErrFetchFailed         = errors.New("document transfer failed")
)

// State is a step of a download attempt.
type State string

const (
	StateStart         State = "start"
	StateCheckIdentity State = "check_identity"
	StateCheckBalance  State = "check_balance"
	StateDeduct        State = "deduct"
	StateFetch         State = "fetch"
	StateDenied        State = "denied"
	StateDone          State = "done"
)

// Result is the terminal result of an attempt.
type Result string

const (
	ResultSuccess             Result = "success"
	ResultFetchFailed         Result = "fetch_failed"
	ResultNotAuthenticated    Result = "not_authenticated"
	ResultInsufficientBalance Result = "insufficient_balance"
)

// Denied reports whether the attempt stopped before anything was charged.
func (r Result) Denied() bool {
	return r == ResultNotAuthenticated || r == ResultInsufficientBalance
}

// Message is the line shown to the user for r.
func (r Result) Message() string {
	switch r {
	case ResultSuccess:
		return "Download complete."
	case ResultNotAuthenticated:
		return "Please log in to download this document."
	case ResultInsufficientBalance:
		return "You do not have enough points. Top up your balance and try again."
	case ResultFetchFailed:
		return "The download failed. Please try again."
	}
	return ""
}

func (r Result) err() error {
	switch r {
	case ResultNotAuthenticated:
		return ErrNotAuthenticated
	case ResultInsufficientBalance:
		return ErrInsufficientBalance
	case ResultFetchFailed:
		return ErrFetchFailed
	}
	return nil
}

// Outcome is the record of one attempt.
type Outcome struct {
	Result Result
	Trace  []State
	// Charged is the number of points deducted by this attempt.
	Charged  int64
	Refunded bool
	// Balance is the balance after the attempt; zero when it was never read.
	Balance int64
	// Location is the local path of the released content.
	Location string
	Shared   bool
}

func (o *Outcome) enter(s State) { o.Trace = append(o.Trace, s) }

// Identities exposes the signed-in identity. session.Store satisfies it.
type Identities interface {
	Identity() (session.Identity, bool)
}

// Ledger is the balance store as used by the gate.
type Ledger interface {
	Balance(ctx context.Context, identity string) (ledger.Account, error)
	Deduct(ctx context.Context, identity string, cost int64, reference string) (ledger.Account, error)
	Refund(ctx context.Context, identity string, amount int64, reference string) (ledger.Account, error)
}

// Gate runs download attempts. It is safe for concurrent use.
type Gate struct {
	ids     Identities
	ledger  Ledger
	fetcher content.Fetcher
	log     logging.Logger
	metrics *Metrics
	refund  bool

	group singleflight.Group
}

type Option func(*Gate)

// WithRefundOnFetchFailure controls whether a charge is given back when the
// transfer fails. It is on by default.
func WithRefundOnFetchFailure(on bool) Option {
	return func(g *Gate) { g.refund = on }
}

func WithLogger(l logging.Logger) Option {
	return func(g *Gate) { g.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(g *Gate) { g.metrics = m }
}

func New(ids Identities, l Ledger, f content.Fetcher, opts ...Option) *Gate {
	g := &Gate{ids: ids, ledger: l, fetcher: f, log: logging.Nop(), refund: true}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Download runs one attempt for d. The returned error is nil on success, one
// of the package errors for the other results, or a storage error that
// aborted the attempt before any points moved.
//
// Identical attempts in flight at the same time (same identity, same
// document) share one execution and therefore one charge.
func (g *Gate) Download(ctx context.Context, d models.Descriptor) (Outcome, error) {
	if d.Score < 0 {
		return Outcome{}, fmt.Errorf("%w: negative score %d for document %s", common.ErrInvalidAmount, d.Score, d.DocumentID)
	}

	key := "anonymous"
	if id, ok := g.ids.Identity(); ok {
		key = "id:" + id.Key()
	}
	key += "|doc:" + d.DocumentID.String()

	v, err, shared := g.group.Do(key, func() (any, error) {
		return g.run(ctx, d)
	})
	out := v.(Outcome)
	out.Trace = append([]State(nil), out.Trace...)
	out.Shared = shared
	return out, err
}

func (g *Gate) run(ctx context.Context, d models.Descriptor) (Outcome, error) {
	var out Outcome
	out.enter(StateStart)
	out.enter(StateCheckIdentity)

	id, authenticated := g.ids.Identity()
	if !authenticated {
		if d.RequiresIdentity() {
			return g.finish(ctx, d, out, ResultNotAuthenticated)
		}
		return g.fetch(ctx, d, out, "")
	}
	if !d.RequiresPayment() {
		return g.fetch(ctx, d, out, id.Key())
	}

	out.enter(StateCheckBalance)
	acc, err := g.ledger.Balance(ctx, id.Key())
	if err != nil {
		return out, fmt.Errorf("read balance: %w", err)
	}
	out.Balance = acc.Points
	if acc.Points < d.Score {
		return g.finish(ctx, d, out, ResultInsufficientBalance)
	}

	out.enter(StateDeduct)
	acc, err = g.ledger.Deduct(ctx, id.Key(), d.Score, reference(d))
	if errors.Is(err, common.ErrInsufficientBalance) {
		// Another writer spent the points between the check and the charge.
		if now, berr := g.ledger.Balance(ctx, id.Key()); berr == nil {
			out.Balance = now.Points
		}
		return g.finish(ctx, d, out, ResultInsufficientBalance)
	}
	if err != nil {
		return out, fmt.Errorf("deduct points: %w", err)
	}
	out.Charged = d.Score
	out.Balance = acc.Points

	return g.fetch(ctx, d, out, id.Key())
}

func (g *Gate) fetch(ctx context.Context, d models.Descriptor, out Outcome, identity string) (Outcome, error) {
	out.enter(StateFetch)

	res, err := g.fetcher.Fetch(ctx, content.Request{URL: d.ContentURL, FileName: d.FileName})
	if err != nil {
		g.log.Warn(ctx, "document transfer failed", "document", d.DocumentID, "error", err)
		if out.Charged > 0 && g.refund {
			acc, rerr := g.ledger.Refund(ctx, identity, out.Charged, reference(d))
			if rerr != nil {
				g.log.Error(ctx, "refund failed", "identity", identity, "document", d.DocumentID, "points", out.Charged, "error", rerr)
			} else {
				out.Refunded = true
				out.Balance = acc.Points
			}
		}
		var ferr error
		out, ferr = g.finish(ctx, d, out, ResultFetchFailed)
		return out, fmt.Errorf("%w: %w", ferr, err)
	}

	out.Location = res.Path
	return g.finish(ctx, d, out, ResultSuccess)
}

func (g *Gate) finish(ctx context.Context, d models.Descriptor, out Outcome, r Result) (Outcome, error) {
	out.Result = r
	if r.Denied() {
		out.enter(StateDenied)
	} else {
		out.enter(StateDone)
	}
	g.metrics.record(r)
	g.log.Info(ctx, "download attempt finished",
		"document", d.DocumentID, "result", r, "charged", out.Charged, "refunded", out.Refunded)
	return out, r.err()
}

func reference(d models.Descriptor) string {
	return "document:" + d.DocumentID.String()
}
