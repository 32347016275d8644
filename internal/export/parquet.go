package export

import (
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/joacominatel/rentalviz/internal/database"
)

// WriteParquet writes the result as a single-row-group Parquet file.
func WriteParquet(path string, res *database.QueryResult) error {
	table, err := ToArrow(res, memory.NewGoAllocator())
	if err != nil {
		return err
	}
	defer table.Release()

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer file.Close()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(table.Schema(), file, props, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}

	if err := writer.WriteTable(table, max(table.NumRows(), 1)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("write parquet table: %w", err)
	}
	return writer.Close()
}

// ToArrow converts a result into an Arrow table. Column types follow the
// values: any float makes the column float64, otherwise int64, bool or
// string. Columns with no non-null values are strings.
func ToArrow(res *database.QueryResult, mem memory.Allocator) (arrow.Table, error) {
	fields := make([]arrow.Field, len(res.Columns))
	for j, col := range res.Columns {
		fields[j] = arrow.Field{Name: col, Type: columnType(res, j), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for j := range res.Columns {
		for i := range res.Rows {
			if err := appendValue(b.Field(j), res.Value(i, j)); err != nil {
				return nil, fmt.Errorf("column %s row %d: %w", res.Columns[j], i, err)
			}
		}
	}

	rec := b.NewRecord()
	defer rec.Release()

	return array.NewTableFromRecords(schema, []arrow.Record{rec}), nil
}

func columnType(res *database.QueryResult, col int) arrow.DataType {
	var dt arrow.DataType
	for i := range res.Rows {
		var t arrow.DataType
		switch res.Value(i, col).(type) {
		case nil:
			continue
		case float64:
			t = arrow.PrimitiveTypes.Float64
		case int64:
			t = arrow.PrimitiveTypes.Int64
		case bool:
			t = arrow.FixedWidthTypes.Boolean
		default:
			return arrow.BinaryTypes.String
		}
		switch {
		case dt == nil:
			dt = t
		case arrow.TypeEqual(dt, t):
		case isNumber(dt) && isNumber(t):
			dt = arrow.PrimitiveTypes.Float64
		default:
			return arrow.BinaryTypes.String
		}
	}
	if dt == nil {
		return arrow.BinaryTypes.String
	}
	return dt
}

func isNumber(dt arrow.DataType) bool {
	return dt.ID() == arrow.INT64 || dt.ID() == arrow.FLOAT64
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch fb := b.(type) {
	case *array.Float64Builder:
		switch x := v.(type) {
		case float64:
			fb.Append(x)
		case int64:
			fb.Append(float64(x))
		default:
			return fmt.Errorf("unexpected %T in float column", v)
		}
	case *array.Int64Builder:
		x, ok := v.(int64)
		if !ok {
			return fmt.Errorf("unexpected %T in integer column", v)
		}
		fb.Append(x)
	case *array.BooleanBuilder:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("unexpected %T in boolean column", v)
		}
		fb.Append(x)
	case *array.StringBuilder:
		fb.Append(database.FormatValue(v))
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}
