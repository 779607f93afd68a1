package jsonsource

import (
	"bufio"
	"bytes"
	"io"
	"strconv"

	"github.com/tidwall/gjson"

	"dqsuggest/adapters/memory"
	"dqsuggest/internal/errors"
	"dqsuggest/ports"
)

// Read loads newline-delimited JSON objects into an in-memory dataset.
// Column names and order come from the first object; later objects may
// omit keys, which count as nulls, as do explicit JSON nulls.
func Read(r io.Reader) (*memory.Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	var columns []string
	var rows []ports.Row
	line := 0

	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		if !gjson.ValidBytes(raw) {
			return nil, errors.InvalidInput("invalid JSON object on line " + strconv.Itoa(line))
		}

		obj := gjson.ParseBytes(raw)
		if !obj.IsObject() {
			return nil, errors.InvalidInput("expected a JSON object on line " + strconv.Itoa(line))
		}

		if columns == nil {
			obj.ForEach(func(key, _ gjson.Result) bool {
				columns = append(columns, key.String())
				return true
			})
		}

		row := make(ports.Row, len(columns))
		for _, col := range columns {
			v := obj.Get(col)
			if !v.Exists() || v.Type == gjson.Null {
				row[col] = ports.Cell{Null: true}
			} else {
				row[col] = ports.Cell{Raw: v.String()}
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read JSON lines")
	}
	if columns == nil {
		columns = []string{}
	}

	return memory.New(columns, rows), nil
}
