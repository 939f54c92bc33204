package expectation

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/placepulse/livability/internal/model"
)

// workbook column layout, matching the spreadsheets research hands over:
// area_type | context | pillar | metric | expected | p25 | p75 | sample_size
const xlsxColumns = 8

// ReadWorkbook parses an expectation workbook. The first row is a header and
// is skipped; blank rows are ignored.
func ReadWorkbook(path string) ([]Entry, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "expectation: open workbook")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("expectation: workbook has no sheets")
	}

	var entries []Entry
	for i, row := range f.Sheets[0].Rows {
		if i == 0 {
			continue
		}
		cells := rowStrings(row)
		if blankRow(cells) {
			continue
		}
		e, err := parseRow(cells)
		if err != nil {
			return nil, eris.Wrapf(err, "expectation: workbook row %d", i+1)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func rowStrings(row *xlsx.Row) []string {
	out := make([]string, xlsxColumns)
	for i := 0; i < xlsxColumns && i < len(row.Cells); i++ {
		out[i] = strings.TrimSpace(row.Cells[i].String())
	}
	return out
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func parseRow(cells []string) (Entry, error) {
	at, err := model.ParseAreaType(cells[0])
	if err != nil {
		return Entry{}, err
	}

	e := Entry{
		AreaType: at,
		Context:  model.ContextTag(strings.ToLower(cells[1])),
		Pillar:   strings.ToLower(cells[2]),
		Metric:   strings.ToLower(cells[3]),
	}
	if e.Pillar == "" || e.Metric == "" {
		return Entry{}, eris.New("pillar and metric are required")
	}

	if e.Expected, err = strconv.ParseFloat(cells[4], 64); err != nil {
		return Entry{}, eris.Wrap(err, "parse expected")
	}
	if cells[5] != "" {
		v, err := strconv.ParseFloat(cells[5], 64)
		if err != nil {
			return Entry{}, eris.Wrap(err, "parse p25")
		}
		e.P25 = &v
	}
	if cells[6] != "" {
		v, err := strconv.ParseFloat(cells[6], 64)
		if err != nil {
			return Entry{}, eris.Wrap(err, "parse p75")
		}
		e.P75 = &v
	}
	if cells[7] != "" {
		n, err := strconv.Atoi(cells[7])
		if err != nil {
			return Entry{}, eris.Wrap(err, "parse sample_size")
		}
		e.SampleSize = n
	}
	return e, nil
}
