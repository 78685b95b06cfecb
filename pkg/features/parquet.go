package features

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/scotuslab/leanings/pkg/scdb"
	"github.com/scotuslab/leanings/pkg/tables"
)

const batchSize = 1 << 20

// WriteParquet writes the feature matrix as gzip-compressed Parquet.
func WriteParquet(path string, m *Matrix) error {
	slugs := make([]string, len(m.Areas))
	for i, area := range m.Areas {
		slugs[i] = area.Slug()
	}
	schema := tables.NewFeaturesSchema(slugs)

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating features file %q: %w", path, err)
	}
	// Don't close outFile; parquet handles closing it.

	writer, err := pqarrow.NewFileWriter(
		schema,
		outFile,
		parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip),
			parquet.WithCompressionLevel(gzip.BestCompression)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return fmt.Errorf("creating features writer: %w", err)
	}

	allocator := memory.NewGoAllocator()
	recordBuilder := array.NewRecordBuilder(allocator, schema)
	defer recordBuilder.Release()

	fields := recordBuilder.Fields()
	justiceIdField := fields[0].(*array.Uint16Builder)
	termField := fields[1].(*array.Uint16Builder)
	areaFields := make([]*array.Uint8Builder, len(m.Areas))
	for i := range m.Areas {
		areaFields[i] = fields[2+i].(*array.Uint8Builder)
	}
	labelField := fields[2+len(m.Areas)].(*array.Uint8Builder)

	for i, key := range m.Keys {
		justiceIdField.Append(key.JusticeID)
		termField.Append(key.Term)
		for j := range m.Areas {
			areaFields[j].Append(m.Cells[i][j])
		}
		labelField.Append(m.Labels[i])
	}

	record := recordBuilder.NewRecord()
	defer record.Release()
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("writing features: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing features writer: %w", err)
	}
	return nil
}

// ReadParquet loads a feature matrix written by WriteParquet. Issue-area
// columns are recognized by slug; the column order in the file is preserved.
func ReadParquet(ctx context.Context, path string) (*Matrix, error) {
	fileReader, err := file.OpenParquetFile(path, true)
	if err != nil {
		return nil, fmt.Errorf("opening features file %q: %w", path, err)
	}
	defer func() {
		if err := fileReader.Close(); err != nil {
			fmt.Println(err)
		}
	}()

	allocator := memory.NewGoAllocator()
	reader, err := pqarrow.NewFileReader(fileReader,
		pqarrow.ArrowReadProperties{Parallel: true, BatchSize: batchSize},
		allocator,
	)
	if err != nil {
		return nil, fmt.Errorf("creating features reader: %w", err)
	}

	schema, err := reader.Schema()
	if err != nil {
		return nil, fmt.Errorf("getting features schema: %w", err)
	}

	justiceIdIndex := -1
	termIndex := -1
	labelIndex := -1
	var areas []scdb.IssueArea
	var areaIndices []int
	for i, field := range schema.Fields() {
		switch field.Name {
		case tables.JusticeIdFieldName:
			justiceIdIndex = i
		case tables.TermFieldName:
			termIndex = i
		case tables.LabelFieldName:
			labelIndex = i
		default:
			area, found := scdb.AreaBySlug(field.Name)
			if !found {
				return nil, fmt.Errorf("unexpected features column %q", field.Name)
			}
			areas = append(areas, area)
			areaIndices = append(areaIndices, i)
		}
	}
	if justiceIdIndex < 0 || termIndex < 0 || labelIndex < 0 {
		return nil, fmt.Errorf("features file %q is missing key columns", path)
	}

	recordReader, err := reader.GetRecordReader(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("getting features record reader: %w", err)
	}

	matrix := &Matrix{Areas: areas}

	var record arrow.Record
	for record, err = recordReader.Read(); err == nil; record, err = recordReader.Read() {
		justiceIdColumn, ok := record.Column(justiceIdIndex).(*array.Uint16)
		if !ok {
			return nil, fmt.Errorf("expected justice id column to be of type *array.Uint16, got %T",
				record.Column(justiceIdIndex))
		}
		termColumn, ok := record.Column(termIndex).(*array.Uint16)
		if !ok {
			return nil, fmt.Errorf("expected term column to be of type *array.Uint16, got %T",
				record.Column(termIndex))
		}
		labelColumn, ok := record.Column(labelIndex).(*array.Uint8)
		if !ok {
			return nil, fmt.Errorf("expected label column to be of type *array.Uint8, got %T",
				record.Column(labelIndex))
		}
		areaColumns := make([]*array.Uint8, len(areaIndices))
		for j, index := range areaIndices {
			column, ok := record.Column(index).(*array.Uint8)
			if !ok {
				return nil, fmt.Errorf("expected area column to be of type *array.Uint8, got %T",
					record.Column(index))
			}
			areaColumns[j] = column
		}

		for i := 0; i < int(record.NumRows()); i++ {
			matrix.Keys = append(matrix.Keys, Key{
				JusticeID: justiceIdColumn.Value(i),
				Term:      termColumn.Value(i),
			})
			cells := make([]uint8, len(areaColumns))
			for j, column := range areaColumns {
				cells[j] = column.Value(i)
			}
			matrix.Cells = append(matrix.Cells, cells)
			matrix.Labels = append(matrix.Labels, labelColumn.Value(i))
		}
	}
	if !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading features records: %w", err)
	}

	return matrix, nil
}
