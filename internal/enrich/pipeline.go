package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/swilhoit/sunbeam/internal/catalog"
	"github.com/swilhoit/sunbeam/internal/metrics"
)

var (
	ErrMissingID       = errors.New("missing product id")
	ErrMissingHandle   = errors.New("missing product handle")
	ErrDuplicateHandle = errors.New("duplicate product handle")
)

// RecordError describes one raw record excluded from the catalog.
type RecordError struct {
	Index  int
	ID     int64
	Handle string
	Err    error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d (id=%d handle=%q): %v", e.Index, e.ID, e.Handle, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// Reason is a short metric label for the failure.
func (e RecordError) Reason() string {
	switch {
	case errors.Is(e.Err, ErrMissingID):
		return "missing_id"
	case errors.Is(e.Err, ErrMissingHandle):
		return "missing_handle"
	case errors.Is(e.Err, ErrDuplicateHandle):
		return "duplicate_handle"
	default:
		return "malformed"
	}
}

// Enrich derives every catalog attribute from raw. It never fails.
func Enrich(raw catalog.RawProduct) catalog.EnrichedProduct {
	p := catalog.EnrichedProduct{RawProduct: raw}

	p.Price = 0
	if len(raw.Variants) > 0 {
		p.Price = raw.Variants[0].Price
	}

	p.NormalizedCategory = NormalizeCategory(raw.ProductType)
	p.Rooms = Rooms(raw.Tags)
	p.Style = Style(raw.Vendor, raw.Tags)
	p.Condition = Condition(raw.Description)
	p.Era = Era(raw.Description, raw.Tags)
	p.Materials = Materials(raw.Description)
	p.Dimensions = Dimensions(raw.Description)
	p.IsOnSale = raw.CompareAtPrice != nil && *raw.CompareAtPrice > p.Price
	p.IsSold = soldOut(raw.Variants)
	return p
}

func soldOut(variants []catalog.Variant) bool {
	if len(variants) == 0 {
		return false
	}
	for _, v := range variants {
		if v.Available {
			return false
		}
	}
	return true
}

// Pipeline turns raw snapshots into enriched products.
type Pipeline struct {
	log     *zap.Logger
	metrics *metrics.Metrics
	workers int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers bounds the number of records enriched concurrently.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithMetrics records enrichment counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// NewPipeline creates a pipeline. A nil logger discards logs.
func NewPipeline(log *zap.Logger, opts ...Option) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{log: log, workers: 4}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnrichAll enriches raws concurrently. The output has one product per
// input, in input order.
func (p *Pipeline) EnrichAll(ctx context.Context, raws []catalog.RawProduct) ([]catalog.EnrichedProduct, error) {
	out := make([]catalog.EnrichedProduct, len(raws))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = Enrich(raws[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("enriching products: %w", err)
	}

	p.metrics.Enriched(len(out))
	return out, nil
}

// Result is the outcome of ingesting a raw snapshot.
type Result struct {
	Products []catalog.EnrichedProduct
	Rejected []RecordError
}

// Ingest decodes a raw snapshot and enriches every well-formed record.
// Malformed records are reported in Result.Rejected and skipped; only an
// unreadable document or cancellation fails the whole batch.
func (p *Pipeline) Ingest(ctx context.Context, r io.Reader) (Result, error) {
	raws, rejected, err := DecodeRaw(r)
	if err != nil {
		return Result{}, err
	}
	for _, rec := range rejected {
		p.log.Warn("skipping raw record",
			zap.Int("index", rec.Index),
			zap.Int64("id", rec.ID),
			zap.String("handle", rec.Handle),
			zap.Error(rec.Err),
		)
		p.metrics.Rejected(rec.Reason())
	}

	products, err := p.EnrichAll(ctx, raws)
	if err != nil {
		return Result{}, err
	}

	p.log.Info("enriched raw snapshot",
		zap.Int("records", len(raws)+len(rejected)),
		zap.Int("products", len(products)),
		zap.Int("rejected", len(rejected)),
	)
	return Result{Products: products, Rejected: rejected}, nil
}

// DecodeRaw reads a JSON array of raw products. Each element is decoded and
// validated on its own, so one bad record does not affect the others.
func DecodeRaw(r io.Reader) ([]catalog.RawProduct, []RecordError, error) {
	var elems []json.RawMessage
	if err := json.NewDecoder(r).Decode(&elems); err != nil {
		return nil, nil, fmt.Errorf("decoding raw snapshot: %w", err)
	}

	raws := make([]catalog.RawProduct, 0, len(elems))
	var rejected []RecordError
	seen := make(map[string]struct{}, len(elems))

	for i, elem := range elems {
		var raw catalog.RawProduct
		if err := decodeStrict(elem, &raw); err != nil {
			id, handle := identify(elem)
			rejected = append(rejected, RecordError{Index: i, ID: id, Handle: handle, Err: err})
			continue
		}
		if err := validate(raw, seen); err != nil {
			rejected = append(rejected, RecordError{Index: i, ID: raw.ID, Handle: raw.Handle, Err: err})
			continue
		}
		seen[raw.Handle] = struct{}{}
		raws = append(raws, raw)
	}
	return raws, rejected, nil
}

func decodeStrict(data json.RawMessage, out *catalog.RawProduct) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("null record")
	}
	return json.Unmarshal(data, out)
}

func validate(raw catalog.RawProduct, seen map[string]struct{}) error {
	if raw.ID == 0 {
		return ErrMissingID
	}
	if raw.Handle == "" {
		return ErrMissingHandle
	}
	if _, dup := seen[raw.Handle]; dup {
		return ErrDuplicateHandle
	}
	return nil
}

// identify recovers what it can from a record that failed to decode.
func identify(data json.RawMessage) (int64, string) {
	var loose map[string]json.RawMessage
	if json.Unmarshal(data, &loose) != nil {
		return 0, ""
	}
	var id int64
	var handle string
	_ = json.Unmarshal(loose["id"], &id)
	_ = json.Unmarshal(loose["handle"], &handle)
	return id, handle
}
