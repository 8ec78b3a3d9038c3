package layout

import (
	"errors"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// stubTypesetter 是一个最小实现，仅用于测试：每个字符宽度固定为 charWidth。
type stubTypesetter struct {
	charWidth float64
	err       error
}

func (s *stubTypesetter) TextWidth(content string, font string, fontSize float64) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return float64(utf8.RuneCountInString(content)) * s.charWidth, nil
}

func testFlow() Flow {
	return Flow{
		X:           220,
		Y:           380,
		LineSpacing: 20,
		PageWidth:   A4Width,
		PageHeight:  A4Height,
	}
}

func contents(runs []TextRun) []string {
	out := make([]string, 0, len(runs))
	for _, r := range runs {
		out = append(out, r.Content)
	}
	return out
}

func TestWrapKeepsShortTextOnOneLine(t *testing.T) {
	ts := &stubTypesetter{charWidth: 10}
	text := "one two  three\tfour"
	lines, err := Wrap(text, 500, "Body", 12, ts)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	want := []string{"one two three four"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapBreaksAtLastFittingWord(t *testing.T) {
	ts := &stubTypesetter{charWidth: 10}
	// "aaaa bbbb" = 90 < 100; "aaaa bbbb cccc" = 140 >= 100
	lines, err := Wrap("aaaa bbbb cccc dd", 100, "Body", 12, ts)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	want := []string{"aaaa bbbb", "cccc dd"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapLimitIsExclusive(t *testing.T) {
	ts := &stubTypesetter{charWidth: 10}
	// "abcd efghi" 恰好 100，不满足 < 100
	lines, err := Wrap("abcd efghi", 100, "Body", 12, ts)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected break at exact limit, got %q", lines)
	}
}

func TestWrapNeverSplitsLongWord(t *testing.T) {
	ts := &stubTypesetter{charWidth: 10}
	long := strings.Repeat("x", 80)
	lines, err := Wrap("hi "+long+" yo", 100, "Body", 12, ts)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	want := []string{"hi", long, "yo"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapLeadingLongWordHasNoBlankLine(t *testing.T) {
	ts := &stubTypesetter{charWidth: 10}
	long := strings.Repeat("x", 80)
	lines, err := Wrap(long, 100, "Body", 12, ts)
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	if diff := cmp.Diff([]string{long}, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestWrapEmptyText(t *testing.T) {
	lines, err := Wrap("   ", 100, "Body", 12, &stubTypesetter{charWidth: 10})
	if err != nil {
		t.Fatalf("Wrap error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestWrapPropagatesMeasureError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Wrap("a b", 100, "Body", 12, &stubTypesetter{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected measure error, got %v", err)
	}
}

func TestBuildPositionsLinesAndSpacing(t *testing.T) {
	ts := &stubTypesetter{charWidth: 5}
	blue := Color{B: 1}
	blocks := []Block{
		{Column: "Name", Text: "Name: Alice", Font: "Body", FontSize: 14, Spacing: 10, Color: blue},
		{Column: "Score", Text: "Score: 90", Font: "Body", FontSize: 12},
	}
	res, err := Build(blocks, testFlow(), BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(res.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(res.Pages))
	}
	want := []TextRun{
		{Column: "Name", Content: "Name: Alice", X: 220, Y: 380, Font: "Body", FontSize: 14, Color: blue},
		{Column: "Score", Content: "Score: 90", X: 220, Y: 350, Font: "Body", FontSize: 12},
	}
	if diff := cmp.Diff(want, res.Pages[0].Texts); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildOverflowStartsNewPageMidColumn(t *testing.T) {
	ts := &stubTypesetter{charWidth: 10}
	flow := testFlow()
	flow.Y = 100
	flow.MaxLineWidth = 100
	// 每个词 40 宽，两个词 "wwww wwww" = 90 < 100，三个词超限，因此每行两个词。
	text := strings.TrimSpace(strings.Repeat("wwww ", 8))
	res, err := Build([]Block{{Column: "Bio", Text: text, Font: "Body", FontSize: 12}}, flow, BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	// y: 100 -> 80 -> 60 -> 40(<50, 换页, 回到 100) -> 80
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	first := res.Pages[0].Texts
	second := res.Pages[1].Texts
	if len(first) != 3 || len(second) != 1 {
		t.Fatalf("unexpected split: %d + %d", len(first), len(second))
	}
	if second[0].Y != flow.Y {
		t.Fatalf("expected cursor reset to %g, got %g", flow.Y, second[0].Y)
	}
	if second[0].Font != "Body" || second[0].FontSize != 12 {
		t.Fatalf("font not carried to new page: %+v", second[0])
	}
}

func TestBuildSpacingCanTriggerOverflow(t *testing.T) {
	ts := &stubTypesetter{charWidth: 1}
	flow := testFlow()
	flow.Y = 100
	blocks := []Block{
		{Column: "A", Text: "a", Spacing: 40},
		{Column: "B", Text: "b"},
	}
	res, err := Build(blocks, flow, BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, contents(res.Pages[0].Texts)); diff != "" {
		t.Fatalf("page 1 mismatch (-want +got):\n%s", diff)
	}
	if len(res.Pages) != 2 || res.Pages[1].Texts[0].Y != 100 {
		t.Fatalf("expected B on page 2 at y=100, got %+v", res.Pages)
	}
}

func TestBuildEmptyTextStillAppliesSpacing(t *testing.T) {
	ts := &stubTypesetter{charWidth: 1}
	blocks := []Block{
		{Column: "Empty", Text: "", Spacing: 15},
		{Column: "Next", Text: "x"},
	}
	res, err := Build(blocks, testFlow(), BuildOptions{Typesetter: ts})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	runs := res.Runs()
	if len(runs) != 1 || runs[0].Y != 365 {
		t.Fatalf("expected single run at 365, got %+v", runs)
	}
}

func TestBuildRequiresTypesetter(t *testing.T) {
	if _, err := Build(nil, testFlow(), BuildOptions{}); err == nil {
		t.Fatalf("expected error without typesetter")
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#003380")
	if err != nil {
		t.Fatalf("ParseHex error: %v", err)
	}
	const eps = 1e-9
	if c.R != 0 || abs(c.G-0.2) > eps || abs(c.B-128.0/255.0) > eps {
		t.Fatalf("unexpected color %+v", c)
	}
	if c.Hex() != "#003380" {
		t.Fatalf("round trip mismatch: %s", c.Hex())
	}

	short, err := ParseHex("fff")
	if err != nil || short != (Color{R: 1, G: 1, B: 1}) {
		t.Fatalf("short form mismatch: %+v %v", short, err)
	}
	if _, err := ParseHex("#12"); err == nil {
		t.Fatalf("expected error for bad length")
	}
	if _, err := ParseHex("#zzzzzz"); err == nil {
		t.Fatalf("expected error for bad digits")
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestWriteDebugJSON(t *testing.T) {
	dir := t.TempDir()
	res := &Result{Pages: []Page{{Width: 1, Height: 2, Texts: []TextRun{{Content: "hi"}}}}}
	path, err := WriteDebugJSON(res, dir, 4)
	if err != nil {
		t.Fatalf("WriteDebugJSON error: %v", err)
	}
	if !strings.HasSuffix(path, "layout_4.json") {
		t.Fatalf("unexpected path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read debug json: %v", err)
	}
	if !strings.Contains(string(data), `"content": "hi"`) {
		t.Fatalf("debug json missing content: %s", data)
	}
}
