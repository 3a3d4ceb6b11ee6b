package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazario/app/api"
	"github.com/shashiranjanraj/bazario/app/models"
	"github.com/shashiranjanraj/bazario/pkg/collection"
	"github.com/shashiranjanraj/bazario/pkg/rbac"
	"github.com/shashiranjanraj/bazario/pkg/storage"
	"github.com/shashiranjanraj/bazario/pkg/workerpool"
)

// exportWorkers bounds concurrent page fetches during an export.
const exportWorkers = 4

// Exporter writes the full product catalog to a CSV artifact on the
// configured storage disk.
type Exporter struct {
	api  *api.Client
	disk storage.Disk
	now  func() time.Time
}

// NewExporter wires the exporter over the API client and a storage disk.
func NewExporter(client *api.Client, disk storage.Disk) *Exporter {
	return &Exporter{api: client, disk: disk, now: time.Now}
}

// Export fetches every catalog page, renders one CSV, stores it and returns
// the artifact's URL. The first page is fetched alone to learn the page
// count; the rest are fetched by a bounded worker pool.
func (e *Exporter) Export(ctx context.Context, role string) (string, error) {
	if err := rbac.Require(role, rbac.ExportCatalog); err != nil {
		return "", err
	}

	first, err := e.api.Products(ctx, 1)
	if err != nil {
		return "", fmt.Errorf("services: export: %w", err)
	}

	var (
		mu       sync.Mutex
		products = append([]models.Product(nil), first.Items...)
		errs     []error
	)

	pool := workerpool.New(exportWorkers)
	for page := 2; page <= first.TotalPages; page++ {
		page := page
		if err := pool.SubmitWait(func() {
			p, err := e.api.Products(ctx, page)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("page %d: %w", page, err))
				return
			}
			products = append(products, p.Items...)
		}); err != nil {
			pool.Shutdown()
			return "", fmt.Errorf("services: export: %w", err)
		}
	}
	pool.Shutdown()

	if len(errs) > 0 {
		return "", fmt.Errorf("services: export: %d pages failed, first: %w", len(errs), errs[0])
	}

	// Pages arrive out of order; restore a stable ordering.
	collection.SortBy(products, func(a, b models.Product) bool { return a.ID < b.ID })

	raw, err := renderCSV(products)
	if err != nil {
		return "", fmt.Errorf("services: export: %w", err)
	}

	path := fmt.Sprintf("exports/products-%s.csv", e.now().UTC().Format("20060102-150405"))
	if err := e.disk.Put(path, raw); err != nil {
		return "", fmt.Errorf("services: export: %w", err)
	}
	return e.disk.URL(path), nil
}

func renderCSV(products []models.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "name", "sku", "price", "stock", "category_id", "description"}); err != nil {
		return nil, err
	}
	for _, p := range products {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.SKU,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.Itoa(p.Stock),
			strconv.FormatInt(p.CategoryID, 10),
			strings.ReplaceAll(p.Description, "\n", " "),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
