package scdb

import (
	"compress/gzip"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/scotuslab/leanings/pkg/tables"
)

const writeChunkSize = 100000

// WriteJoinedParquet writes the joined vote table as gzip-compressed
// Parquet. Direction columns are recoded to binary form, 0 conservative
// and 1 liberal.
func WriteJoinedParquet(path string, records []JoinedRecord) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating joined votes file %q: %w", path, err)
	}
	// Don't close outFile; parquet handles closing it.

	writer, err := pqarrow.NewFileWriter(
		tables.JoinedVotes,
		outFile,
		parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip),
			parquet.WithCompressionLevel(gzip.BestCompression)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		return fmt.Errorf("creating joined votes writer: %w", err)
	}

	allocator := memory.NewGoAllocator()
	recordBuilder := array.NewRecordBuilder(allocator, tables.JoinedVotes)
	defer recordBuilder.Release()

	fields := recordBuilder.Fields()
	caseIdField := fields[0].(*array.StringBuilder)
	termField := fields[1].(*array.Uint16Builder)
	chiefField := fields[2].(*array.BinaryDictionaryBuilder)
	justiceIdField := fields[3].(*array.Uint16Builder)
	justiceNameField := fields[4].(*array.BinaryDictionaryBuilder)
	issueAreaField := fields[5].(*array.Uint8Builder)
	caseDirectionField := fields[6].(*array.Uint8Builder)
	justiceDirectionField := fields[7].(*array.Uint8Builder)
	scoreMeanField := fields[8].(*array.Float64Builder)
	scoreSdField := fields[9].(*array.Float64Builder)

	flush := func() error {
		record := recordBuilder.NewRecord()
		defer record.Release()
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing joined votes: %w", err)
		}
		return nil
	}

	for i, joined := range records {
		caseIdField.Append(joined.CaseID)
		termField.Append(joined.Term)
		if err := chiefField.AppendString(joined.Chief); err != nil {
			return fmt.Errorf("appending chief: %w", err)
		}
		justiceIdField.Append(joined.JusticeID)
		if err := justiceNameField.AppendString(joined.JusticeName); err != nil {
			return fmt.Errorf("appending justice name: %w", err)
		}
		issueAreaField.Append(uint8(joined.IssueArea))
		caseDirectionField.Append(joined.CaseDirection.Binary())
		justiceDirectionField.Append(joined.JusticeDirection.Binary())
		scoreMeanField.Append(joined.ScoreMean)
		scoreSdField.Append(joined.ScoreSD)

		if (i+1)%writeChunkSize == 0 {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing joined votes writer: %w", err)
	}
	return nil
}
