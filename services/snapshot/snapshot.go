package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"sso-concerts/lib/fileutil"
	"sso-concerts/services/concerts"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("ssoconcerts.services.snapshot")

// Row is the on-disk layout of a concert, the columns keep the names
// analysts already use for the csv copy.
type Row struct {
	Concert   string            `parquet:"concert"`
	Key       string            `parquet:"key"`
	Date      string            `parquet:"date"`
	Piece     []string          `parquet:"piece,list"`
	Composer  []string          `parquet:"composer,list"`
	Conductor string            `parquet:"conductor"`
	Artists   []concerts.Artist `parquet:"artist_metadata,list"`
}

func FromConcerts(cs []concerts.Concert) []Row {
	rows := make([]Row, len(cs))
	for i, c := range cs {
		rows[i] = Row{
			Concert:   c.Title,
			Key:       c.Key,
			Date:      c.Date,
			Piece:     c.Pieces,
			Composer:  c.Composers,
			Conductor: c.Conductor,
			Artists:   c.Artists,
		}
	}
	return rows
}

func ToConcerts(rows []Row) []concerts.Concert {
	cs := make([]concerts.Concert, len(rows))
	for i, r := range rows {
		cs[i] = concerts.Concert{
			Title:     r.Concert,
			Key:       r.Key,
			Date:      r.Date,
			Pieces:    r.Piece,
			Composers: r.Composer,
			Conductor: r.Conductor,
			Artists:   r.Artists,
		}
	}
	return cs
}

// WriteParquet writes the lossless snapshot, lists are stored as lists.
func WriteParquet(path string, cs []concerts.Concert) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		writer := parquet.NewGenericWriter[Row](
			w,
			parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		)
		writer.SetKeyValueMetadata("schema", "concert_v1")
		if _, err := writer.Write(FromConcerts(cs)); err != nil {
			writer.Close()
			return err
		}
		return writer.Close()
	})
}

func ReadParquet(path string) ([]concerts.Concert, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := parquet.NewGenericReader[Row](f)
	defer reader.Close()

	rows := make([]Row, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	rows = rows[:read]
	return ToConcerts(rows), nil
}

type Paths struct {
	Parquet string
	CSV     string
	XLSX    string
}

// WritePair writes <prefix>.parquet and its human readable <prefix>.csv
// copy into dir.
func WritePair(ctx context.Context, dir, prefix string, cs []concerts.Concert) (Paths, error) {
	ctx, span := tracer.Start(ctx, "WritePair")
	defer span.End()

	paths := Paths{
		Parquet: filepath.Join(dir, prefix+".parquet"),
		CSV:     filepath.Join(dir, prefix+".csv"),
	}
	err := WriteParquet(paths.Parquet, cs)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to write %s: %w", paths.Parquet, err)
	}
	slog.InfoContext(ctx, "wrote parquet file", "file", paths.Parquet, "rows", len(cs))

	err = WriteCSV(paths.CSV, cs)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to write %s: %w", paths.CSV, err)
	}
	slog.InfoContext(ctx, "wrote csv file", "file", paths.CSV, "rows", len(cs))
	return paths, nil
}
