package dataset

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/fasalmitra/crop-advisor/internal/domain/advisor"
)

// Column positions in the agricultural yield dump. The file ships with a
// header row and is usually tab-separated, though comma-separated copies
// circulate too.
const (
	colCrop       = 0
	colSeason     = 2
	colState      = 3
	colArea       = 4
	colProduction = 5
	colRainfall   = 6
	colFertilizer = 7
	colPesticide  = 8
	colYield      = 9

	minFields = 10
)

// Skip reasons reported per rejected row.
const (
	SkipTooFewFields     = "too_few_fields"
	SkipMissingCrop      = "missing_crop"
	SkipMissingState     = "missing_state"
	SkipNonPositiveYield = "non_positive_yield"
)

// SkippedRow records why one input line was rejected, by 1-based line
// number including the header.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ParseResult is the outcome of one full parse pass.
type ParseResult struct {
	Observations []advisor.CropObservation
	Skipped      []SkippedRow
	TotalRows    int
}

// Parse reads the dataset stream and returns per-hectare observations.
// Malformed numeric cells degrade to zero rather than rejecting the row;
// rows are only rejected for the reasons listed above.
func Parse(r io.Reader) (*ParseResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	res := &ParseResult{}
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue // header
		}
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		res.TotalRows++

		fields := splitRow(text)
		if len(fields) < minFields {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: SkipTooFewFields})
			continue
		}

		crop := strings.TrimSpace(fields[colCrop])
		if crop == "" {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: SkipMissingCrop})
			continue
		}
		state := strings.TrimSpace(fields[colState])
		if state == "" {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: SkipMissingState})
			continue
		}

		area := parseFloat(fields[colArea], 1)
		production := parseFloat(fields[colProduction], 0)
		rainfall := parseFloat(fields[colRainfall], 0)
		fertilizer := parseFloat(fields[colFertilizer], 0)
		pesticide := parseFloat(fields[colPesticide], 0)
		yieldVal := parseFloat(fields[colYield], 0)

		perHa := yieldVal
		if area <= 0 || yieldVal <= 0 {
			perHa = production / maxf(area, 1)
		}
		if perHa <= 0 {
			res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: SkipNonPositiveYield})
			continue
		}

		res.Observations = append(res.Observations, advisor.CropObservation{
			Crop:                 crop,
			Season:               strings.TrimSpace(fields[colSeason]),
			State:                state,
			YieldPerHectare:      perHa,
			RainfallMm:           rainfall,
			FertilizerPerHectare: fertilizer / maxf(area, 1),
			PesticidePerHectare:  pesticide / maxf(area, 1),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// splitRow prefers tabs; comma-separated copies of the dump have no
// quoted fields, so a plain split is safe.
func splitRow(text string) []string {
	if strings.Contains(text, "\t") {
		return strings.Split(text, "\t")
	}
	return strings.Split(text, ",")
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
