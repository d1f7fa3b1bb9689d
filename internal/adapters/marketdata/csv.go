package marketdata

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"marketlens/internal/domain/market_data"
	"marketlens/pkg/errors"
)

var csvColumns = []string{"date", "open", "high", "low", "close", "volume"}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// ReadBarsCSV parses OHLCV rows with a header naming the columns
// date, open, high, low, close and optionally volume, in any order.
// Bars come back oldest first. Duplicate dates keep the last row.
func ReadBarsCSV(r io.Reader) ([]market_data.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "read csv header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range csvColumns[:5] {
		if _, ok := index[col]; !ok {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "csv header is missing %q", col)
		}
	}

	byDate := make(map[time.Time]market_data.PriceBar)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "line %d: %v", line, err)
		}

		bar, err := parseBar(record, index)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		byDate[bar.Date] = bar
	}

	bars := make([]market_data.PriceBar, 0, len(byDate))
	for _, bar := range byDate {
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func parseBar(record []string, index map[string]int) (market_data.PriceBar, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return market_data.PriceBar{}, err
	}

	values := make([]float64, 5)
	for i, name := range csvColumns[1:] {
		raw := field(name)
		if raw == "" && name == "volume" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return market_data.PriceBar{}, errors.Wrapf(errors.ErrInvalidInput, "%s %q", name, raw)
		}
		values[i] = v
	}

	bar := market_data.PriceBar{
		Date:   date,
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}
	if bar.High < bar.Low || bar.Close <= 0 {
		return market_data.PriceBar{}, errors.Wrapf(errors.ErrInvalidInput, "inconsistent bar on %s", date.Format("2006-01-02"))
	}
	return bar, nil
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Wrapf(errors.ErrInvalidInput, "date %q", raw)
}
