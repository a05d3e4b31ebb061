package table

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/zstd"
)

// WriteCSV writes a table as height,nimber rows with a header line.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"height", "nimber"}); err != nil {
		return err
	}
	for h, n := range t.Nimbers {
		row := []string{
			strconv.FormatUint(uint64(h), 10),
			strconv.FormatUint(uint64(n), 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONLZstd writes tables to a zstd-compressed JSONL file, one table
// per line.
func WriteJSONLZstd(path string, tables []*Table) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w := bufio.NewWriterSize(enc, 128*1024)

	for _, t := range tables {
		b, err := json.Marshal(t)
		if err != nil {
			_ = enc.Close()
			_ = f.Close()
			return err
		}
		if _, err := w.Write(b); err != nil {
			_ = enc.Close()
			_ = f.Close()
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			_ = enc.Close()
			_ = f.Close()
			return err
		}
	}

	if err := w.Flush(); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadJSONLZstd reads back tables written by WriteJSONLZstd.
func ReadJSONLZstd(path string) ([]*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var tables []*Table
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var t Table
		if err := json.Unmarshal(line, &t); err != nil {
			return nil, err
		}
		tables = append(tables, &t)
	}
	return tables, scanner.Err()
}
