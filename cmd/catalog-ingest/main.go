// Command catalog-ingest loads legacy catalog exports into the product
// store. Exports arrive as gzipped JSONL dumps, one per legacy replica, and
// replicas are known to diverge: a record is ingested only when its
// identifier appears in at least two dumps.
//
// Pass 1 builds one bloom filter per dump file concurrently. Pass 2
// re-streams each file, keeps records whose identifier hits another file's
// filter, and merges per-file agreement bitmasks. Records confirmed by two
// or more files are upserted.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"math/bits"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ishop-io/ishop-backend/internal/domain/catalog"
	"github.com/ishop-io/ishop-backend/internal/storage/postgres"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	minAgreement  = 2
	progressEvery = 1_000_000
)

// recordJSON is one line of a legacy dump. Identifier fields vary by record
// provenance, matching the seed file format.
type recordJSON struct {
	ID       string           `json:"_id"`
	LegacyID *int64           `json:"id"`
	Code     string           `json:"product_id"`
	Title    string           `json:"title"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Category string           `json:"category"`
}

// key returns the identifier used for cross-file agreement.
func (r recordJSON) key() string {
	switch {
	case r.ID != "":
		return r.ID
	case r.LegacyID != nil:
		return strconv.FormatInt(*r.LegacyID, 10)
	default:
		return r.Code
	}
}

// fileResult holds confirmed candidates found in a single file during pass 2.
type fileResult struct {
	records map[string]recordJSON
	masks   map[string]uint
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing products-*.jsonl.gz dumps")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "products-*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob dump files")
	}
	if len(files) < minAgreement {
		return errors.Errorf("need at least %d dump files in %s, found %d", minAgreement, dataDir, len(files))
	}

	slog.Info("pass 1: building bloom filters", slog.Int("files", len(files)))

	filters, err := buildBloomFilters(ctx, files)
	if err != nil {
		return errors.Wrap(err, "build bloom filters")
	}

	slog.Info("pass 2: finding confirmed records")

	confirmed, err := findConfirmedRecords(ctx, files, filters)
	if err != nil {
		return errors.Wrap(err, "find confirmed records")
	}

	slog.Info("confirmed records found", slog.Int("count", len(confirmed)))

	if len(confirmed) == 0 {
		slog.Info("no confirmed records to insert")
		return nil
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	return writeProducts(ctx, postgres.NewProductRepository(pool), confirmed)
}

// buildBloomFilters creates one bloom filter per file, concurrently.
func buildBloomFilters(ctx context.Context, files []string) ([]*bloom.BloomFilter, error) {
	filters := make([]*bloom.BloomFilter, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(buildFilterForFile(ctx, i, f, filters))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return filters, nil
}

func buildFilterForFile(ctx context.Context, idx int, path string, filters []*bloom.BloomFilter) func() error {
	return func() error {
		filter := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
		var count uint64

		if err := streamGzFile(ctx, path, func(rec recordJSON) {
			if key := rec.key(); key != "" {
				filter.AddString(key)
				count++
				if count%progressEvery == 0 {
					slog.Info("pass 1 progress",
						slog.Int("file", idx+1),
						slog.Uint64("records", count),
					)
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "build filter for file %d", idx+1)
		}

		slog.Info("pass 1 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_records", count),
		)

		filters[idx] = filter
		return nil
	}
}

// findConfirmedRecords re-streams each file and checks identifiers against
// OTHER files' bloom filters. A record is confirmed when it appears in
// minAgreement or more files.
func findConfirmedRecords(ctx context.Context, files []string, filters []*bloom.BloomFilter) (map[string]recordJSON, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(findCandidatesInFile(ctx, i, f, filters, results))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string]uint)
	records := make(map[string]recordJSON)
	for _, r := range results {
		for key, mask := range r.masks {
			merged[key] |= mask
		}
		for key, rec := range r.records {
			records[key] = rec
		}
	}

	confirmed := make(map[string]recordJSON)
	for key, mask := range merged {
		if bits.OnesCount(mask) >= minAgreement {
			confirmed[key] = records[key]
		}
	}

	return confirmed, nil
}

func findCandidatesInFile(
	ctx context.Context,
	idx int,
	path string,
	filters []*bloom.BloomFilter,
	results []fileResult,
) func() error {
	return func() error {
		res := fileResult{
			records: make(map[string]recordJSON),
			masks:   make(map[string]uint),
		}
		fileBit := uint(1) << uint(idx)
		var count uint64

		if err := streamGzFile(ctx, path, func(rec recordJSON) {
			key := rec.key()
			if key == "" {
				return
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("pass 2 progress",
					slog.Int("file", idx+1),
					slog.Uint64("records", count),
				)
			}

			for j, f := range filters {
				if j == idx {
					continue
				}
				if f.TestString(key) {
					res.records[key] = rec
					res.masks[key] |= fileBit
					break
				}
			}
		}); err != nil {
			return errors.Wrapf(err, "scan file %d for candidates", idx+1)
		}

		slog.Info("pass 2 complete",
			slog.Int("file", idx+1),
			slog.Uint64("total_records", count),
			slog.Int("candidates", len(res.records)),
		)

		results[idx] = res
		return nil
	}
}

// streamGzFile opens a gzip-compressed JSONL file and calls fn for each
// parseable line. Malformed lines are skipped with a warning so one corrupt
// record does not abort a multi-gigabyte ingest.
func streamGzFile(ctx context.Context, path string, fn func(rec recordJSON)) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	var line uint64
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line++

		var rec recordJSON
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			slog.Warn("skipping malformed record",
				slog.String("file", path),
				slog.Uint64("line", line),
				slog.String("error", err.Error()),
			)
			continue
		}
		fn(rec)
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	return nil
}

// writeProducts upserts all confirmed records into the product store.
func writeProducts(ctx context.Context, repo *postgres.ProductRepository, confirmed map[string]recordJSON) error {
	slog.Info("writing products to database", slog.Int("count", len(confirmed)))

	var written int
	for key, rec := range confirmed {
		p := catalog.Product{
			ID:         rec.ID,
			LegacyID:   rec.LegacyID,
			LegacyCode: rec.Code,
			Title:      rec.Title,
			Name:       rec.Name,
			Category:   rec.Category,
		}
		if p.ID == "" {
			p.ID = key
		}
		if rec.Price != nil {
			p.Price = catalog.PriceFrom(*rec.Price)
		}

		if err := repo.Upsert(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %s", key)
		}

		written++
		if written%100 == 0 || written == len(confirmed) {
			slog.Info("write progress", slog.Int("written", written), slog.Int("total", len(confirmed)))
		}
	}

	return nil
}
