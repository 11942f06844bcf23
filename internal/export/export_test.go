package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math/cmplx"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

func sampleEpicycles() []dynamo.Epicycle {
	return []dynamo.Epicycle{
		dynamo.NewEpicycle(complex(3, 4), 1),
		dynamo.NewEpicycle(complex(0, -1), -2),
		dynamo.NewEpicycle(cmplx.Rect(0.5, 1), 0),
	}
}

func TestCoefficients(t *testing.T) {
	coeffs := Coefficients(sampleEpicycles(), 0)
	if len(coeffs) != 3 {
		t.Fatalf("expected 3 coefficients, got %d", len(coeffs))
	}
	if coeffs[0].Amplitude != 5 || coeffs[0].Re != 3 || coeffs[0].Im != 4 {
		t.Errorf("unexpected first coefficient %+v", coeffs[0])
	}
	if coeffs[1].Rank != 1 || coeffs[1].Frequency != -2 {
		t.Errorf("unexpected second coefficient %+v", coeffs[1])
	}
	if got := len(Coefficients(sampleEpicycles(), 2)); got != 2 {
		t.Errorf("expected 2 coefficients for k=2, got %d", got)
	}
	if got := len(Coefficients(sampleEpicycles(), 99)); got != 3 {
		t.Errorf("expected k clamped to 3, got %d", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Coefficients(sampleEpicycles(), 0)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv parse failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "rank,frequency,amplitude,phase,re,im" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][1] != "1" || records[1][2] != "5" {
		t.Errorf("unexpected first row %v", records[1])
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coeffs.json")
	doc := Document{
		Source:    "square.svg",
		Samples:   64,
		Metrics:   map[string]float64{"energy_captured": 0.9},
		Epicycles: Coefficients(sampleEpicycles(), 0),
	}
	if err := SaveJSON(path, doc); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("json parse failed: %v", err)
	}
	if got.Count != 3 || got.Source != "square.svg" || got.Samples != 64 {
		t.Errorf("unexpected document %+v", got)
	}
	if got.Metrics["energy_captured"] != 0.9 {
		t.Errorf("metrics not written: %v", got.Metrics)
	}
}

func TestPathToSVG(t *testing.T) {
	path := dynamo.Path{dynamo.Pt(-10, -10), dynamo.Pt(10, -10), dynamo.Pt(10, 10), dynamo.Pt(-10, 10)}
	svg := PathToSVG(path, 120, 120, DefaultSVGStyle())

	if !strings.HasPrefix(svg, "<?xml") || !strings.Contains(svg, "</svg>") {
		t.Fatalf("not an svg document: %q", svg)
	}
	// 20 units fill 120/1.2 = 100 px; world y=-10 maps to the bottom.
	if !strings.Contains(svg, "M10.00,110.00") {
		t.Errorf("unexpected first vertex in %q", svg)
	}
	if !strings.Contains(svg, " Z\"") {
		t.Error("path is not closed")
	}
	if !strings.Contains(svg, `stroke="#00ffff"`) {
		t.Error("stroke color missing")
	}

	if PathToSVG(path[:1], 100, 100, DefaultSVGStyle()) != "" {
		t.Error("expected empty output for a single point")
	}
}

func TestSaveSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := SaveSVG(path, "<svg/>"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "<svg/>" {
		t.Errorf("unexpected contents %q", data)
	}
	if err := SaveSVG(filepath.Join(t.TempDir(), "missing", "out.svg"), "x"); err == nil {
		t.Error("expected error for missing directory")
	}
}
