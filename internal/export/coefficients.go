// Package export writes decomposition results as CSV, JSON and SVG files.
// Exports are one-way; nothing here reads them back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// Coefficient is one epicycle in exported form.
type Coefficient struct {
	Rank      int     `json:"rank"`
	Frequency int     `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
	Phase     float64 `json:"phase"`
	Re        float64 `json:"re"`
	Im        float64 `json:"im"`
}

// Document is the JSON export of a decomposition.
type Document struct {
	Source    string             `json:"source"`
	Samples   int                `json:"samples"`
	Count     int                `json:"count"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Epicycles []Coefficient      `json:"epicycles"`
}

// Coefficients converts the first k epicycles. k <= 0 means all.
func Coefficients(epis []dynamo.Epicycle, k int) []Coefficient {
	if k <= 0 || k > len(epis) {
		k = len(epis)
	}
	out := make([]Coefficient, k)
	for i, e := range epis[:k] {
		out[i] = Coefficient{
			Rank:      i,
			Frequency: e.Frequency,
			Amplitude: e.Amplitude,
			Phase:     e.Phase,
			Re:        real(e.Value),
			Im:        imag(e.Value),
		}
	}
	return out
}

var csvHeader = []string{"rank", "frequency", "amplitude", "phase", "re", "im"}

// WriteCSV writes one row per coefficient after a header row.
func WriteCSV(w io.Writer, coeffs []Coefficient) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 17, 64) }
	for _, c := range coeffs {
		row := []string{
			strconv.Itoa(c.Rank),
			strconv.Itoa(c.Frequency),
			f(c.Amplitude),
			f(c.Phase),
			f(c.Re),
			f(c.Im),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, doc Document) error {
	doc.Count = len(doc.Epicycles)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// SaveCSV writes the CSV export to path, or to stdout when path is "-".
func SaveCSV(path string, coeffs []Coefficient) error {
	return withFile(path, func(w io.Writer) error { return WriteCSV(w, coeffs) })
}

// SaveJSON writes the JSON export to path, or to stdout when path is "-".
func SaveJSON(path string, doc Document) error {
	return withFile(path, func(w io.Writer) error { return WriteJSON(w, doc) })
}

// SaveSVG writes an SVG document to path, or to stdout when path is "-".
func SaveSVG(path, svg string) error {
	return withFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, svg)
		return err
	})
}

func withFile(path string, write func(io.Writer) error) error {
	if path == "-" || path == "" {
		return write(os.Stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
