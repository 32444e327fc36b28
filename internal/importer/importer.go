package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dancehub-storefront/internal/domain"
)

type ResourceWriter interface {
	Upsert(ctx context.Context, r domain.Resource) (*domain.Resource, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates resources.
type CSVImporter struct {
	reader       *csv.Reader
	resourceRepo ResourceWriter
}

func NewCSVImporter(r io.Reader, repo ResourceWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:       csvr,
		resourceRepo: repo,
	}
}

type csvRow struct {
	ID       int64
	Title    string
	Desc     string
	Price    string
	ImageURL string
}

// Run parses CSV rows and upserts one resource per row. Blank rows are
// skipped; any invalid row aborts the run with the rows so far committed.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Title == "" || row.Price == "" {
		return fmt.Errorf("invalid resource row (missing required fields) for title %q", row.Title)
	}
	if _, err := strconv.ParseFloat(row.Price, 64); err != nil {
		return fmt.Errorf("invalid price for %q: %s", row.Title, row.Price)
	}

	r := domain.Resource{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Desc,
		Price:       row.Price,
	}
	if row.ImageURL != "" {
		r.ImageURL = &row.ImageURL
	}

	_, err := i.resourceRepo.Upsert(ctx, r)
	if err != nil {
		return fmt.Errorf("upsert resource %q: %w", row.Title, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	title := pick(record, index, "title")
	desc := pick(record, index, "description")
	price := pick(record, index, "price")
	imageURL := pick(record, index, "image_url")
	idStr := pick(record, index, "id")

	if title == "" && price == "" && imageURL == "" {
		return nil
	}

	var id int64
	if idStr != "" {
		id, _ = strconv.ParseInt(idStr, 10, 64)
	}

	return &csvRow{
		ID:       id,
		Title:    title,
		Desc:     desc,
		Price:    price,
		ImageURL: imageURL,
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
