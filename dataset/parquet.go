package dataset

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type parquetRecord struct {
	Path        string    `parquet:"name=path, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Genre       string    `parquet:"name=genre, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	OneHotGenre []int32   `parquet:"name=one_hot_genre, type=LIST, valuetype=INT32"`
	Features    []float64 `parquet:"name=features, type=LIST, valuetype=DOUBLE"`
}

func writeParquet(path string, records []Record) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(parquetRecord), 2)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range records {
		oneHot := make([]int32, len(rec.OneHotGenre))
		for i, v := range rec.OneHotGenre {
			oneHot[i] = int32(v)
		}
		row := parquetRecord{
			Path:        rec.Path,
			Genre:       rec.Genre,
			OneHotGenre: oneHot,
			Features:    rec.Features,
		}
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write parquet row: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize parquet file: %w", err)
	}
	return nil
}
