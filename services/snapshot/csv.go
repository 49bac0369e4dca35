package snapshot

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"

	"sso-concerts/lib/fileutil"
	"sso-concerts/services/concerts"

	"github.com/jszwec/csvutil"
)

// jsonList keeps list columns readable and loadable in a flat csv file.
type jsonList[T any] []T

func (l jsonList[T]) MarshalText() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}

func (l *jsonList[T]) UnmarshalText(b []byte) error {
	var v []T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*l = v
	return nil
}

type csvRow struct {
	Concert   string                    `csv:"Concert"`
	Key       string                    `csv:"Key"`
	Date      string                    `csv:"Date"`
	Piece     jsonList[string]          `csv:"Piece"`
	Composer  jsonList[string]          `csv:"Composer"`
	Conductor string                    `csv:"Conductor"`
	Artists   jsonList[concerts.Artist] `csv:"Artist_Metadata"`
}

func WriteCSV(path string, cs []concerts.Concert) error {
	rows := make([]csvRow, len(cs))
	for i, c := range cs {
		rows[i] = csvRow{
			Concert:   c.Title,
			Key:       c.Key,
			Date:      c.Date,
			Piece:     c.Pieces,
			Composer:  c.Composers,
			Conductor: c.Conductor,
			Artists:   c.Artists,
		}
	}
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		enc := csvutil.NewEncoder(cw)
		if len(rows) == 0 {
			if err := enc.EncodeHeader(csvRow{}); err != nil {
				return err
			}
		}
		if err := enc.Encode(rows); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	})
}

func ReadCSV(path string) ([]concerts.Concert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []csvRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
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
	return cs, nil
}
