package dataset

import (
	"encoding/csv"
	"os"
	"unicode/utf8"

	"github.com/kobzarvs/qgrid/internal/config"
)

func readCSV(path string, f config.Format) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if c, _ := utf8.DecodeRuneInString(f.Delimiter); c != utf8.RuneError {
		r.Comma = c
	}
	if c, _ := utf8.DecodeRuneInString(f.Comment); c != utf8.RuneError {
		r.Comment = c
	}
	return r.ReadAll()
}

func writeCSV(path string, f config.Format, headers []string, records [][]string) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(file)
	if c, _ := utf8.DecodeRuneInString(f.Delimiter); c != utf8.RuneError {
		w.Comma = c
	}
	err = w.Write(headers)
	if err == nil {
		err = w.WriteAll(records)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}
