package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opdss/dataexporter/response"
)

func newTestExporter(t *testing.T, format string, m map[string]any, cols ...Column) *Exporter {
	t.Helper()
	e, err := NewExporter().Configure(format, m, WithMemory())
	require.NoError(t, err)
	require.NoError(t, e.DeclareColumns(cols...))
	return e
}

func render(t *testing.T, e *Exporter) string {
	t.Helper()
	s, err := e.Render(nil)
	require.NoError(t, err)
	return s
}

func TestCsvExport(t *testing.T) {
	e := newTestExporter(t, "csv", map[string]any{"fileName": "file", "separator": ";"}, Names("test1", "test2")...)
	require.NoError(t, e.IngestRows([][]string{
		{"1a", "1b"},
		{"2a", "2b"},
	}))
	assert.Equal(t, "test1;test2\n1a;1b\n2a;2b", render(t, e))
	assert.Equal(t, "file.csv", e.Filename())
}

func TestCsvMapRows(t *testing.T) {
	e := newTestExporter(t, "csv", map[string]any{"separator": ";"}, Names("a", "b")...)
	require.NoError(t, e.IngestRows([]map[string]any{
		{"a": 1, "b": 2},
		{"a": 3, "b": 4},
	}))
	assert.Equal(t, "a;b\n1;2\n3;4", render(t, e))

	text, err := e.PrepareDelimitedText()
	require.NoError(t, err)
	assert.Equal(t, "a;b\n1;2\n3;4", text)
}

func TestCsvSkipHeader(t *testing.T) {
	e := newTestExporter(t, "csv", map[string]any{"separator": ";", "skip_header": true}, Names("a", "b")...)
	require.NoError(t, e.IngestRows([]map[string]any{
		{"a": 1, "b": 2},
		{"a": 3, "b": 4},
	}))
	assert.Equal(t, "1;2\n3;4", render(t, e))
}

func TestCsvEscapeSeparator(t *testing.T) {
	e := newTestExporter(t, "csv", map[string]any{"separator": ";"}, Names("a", "b")...)
	require.NoError(t, e.IngestRows([]map[string]any{
		{"a": "x;y", "b": "z"},
	}))
	body := render(t, e)
	assert.Equal(t, "a;b\nx\\;y;z", body)

	lines := strings.Split(body, "\n")
	assert.Equal(t, []string{"x;y", "z"}, SplitEscaped(lines[1], ";", `\`))
}

func TestCsvTrailingEscape(t *testing.T) {
	e := newTestExporter(t, "csv", map[string]any{"separator": ";"}, Names("a", "b")...)
	require.NoError(t, e.IngestRows([]map[string]any{
		{"a": `C:\`, "b": "z"},
	}))
	body := render(t, e)
	assert.Equal(t, "a;b\n"+`C:\\;z`, body)

	lines := strings.Split(body, "\n")
	assert.Equal(t, []string{`C:\`, "z"}, SplitEscaped(lines[1], ";", `\`))
}

func TestCsvHeaderEscape(t *testing.T) {
	e := newTestExporter(t, "csv", map[string]any{"separator": ";"}, Pairs("a", "x;y", "b", "B")...)
	require.NoError(t, e.IngestRows([]map[string]any{{"a": 1, "b": 2}}))
	body := render(t, e)
	assert.Equal(t, "x\\;y;B\n1;2", body)

	lines := strings.Split(body, "\n")
	assert.Equal(t, []string{"x;y", "B"}, SplitEscaped(lines[0], ";", `\`))
}

func TestCsvEscapeReplace(t *testing.T) {
	e := newTestExporter(t, "csv", map[string]any{"separator": ";", "escape": "#", "escape_policy": "replace"}, Names("a")...)
	require.NoError(t, e.IngestRows([]map[string]any{{"a": "x;y"}}))
	assert.Equal(t, "a\nx#y", render(t, e))
}

func TestNewlinesAndTags(t *testing.T) {
	e := newTestExporter(t, "csv", nil, Names("a", "b")...)
	require.NoError(t, e.IngestRows([]map[string]any{
		{"a": "line1\r\nline2\nline3\rline4", "b": "<b>bold</b> text"},
	}))
	assert.Equal(t, "a,b\nline1 line2 line3 line4,bold text", render(t, e))
}

func TestXlsExport(t *testing.T) {
	e := newTestExporter(t, "xls", map[string]any{"fileName": "file"}, Names("test1", "test2")...)
	require.NoError(t, e.IngestRows([][]string{
		{"1a", "1b"},
		{"2a", "2b"},
	}))
	expected := `<!DOCTYPE html><html><head><meta http-equiv="Content-Type" content="text/html; charset=utf-8" />` +
		`<meta name="ProgId" content="Excel.Sheet"><meta name="Generator" content="github.com/opdss/dataexporter"></head>` +
		`<body><table><tr><td>test1</td><td>test2</td></tr><tr><td>1a</td><td>1b</td></tr><tr><td>2a</td><td>2b</td></tr></table></body></html>`
	assert.Equal(t, expected, render(t, e))
	assert.Equal(t, "file.xls", e.Filename())
}

func TestHtmlExport(t *testing.T) {
	e := newTestExporter(t, "html", map[string]any{"charset": "gbk"}, Pairs("a", "A")...)
	require.NoError(t, e.IngestRows([]map[string]string{{"a": "1;2"}}))
	body := render(t, e)
	assert.True(t, strings.HasPrefix(body, `<!DOCTYPE html><html><head><meta http-equiv="Content-Type" content="text/html; charset=gbk" /><meta name="Generator"`))
	assert.NotContains(t, body, "ProgId")
	assert.True(t, strings.HasSuffix(body, `<table><tr><td>A</td></tr><tr><td>1;2</td></tr></table></body></html>`))
}

func TestMarkupEscape(t *testing.T) {
	for _, f := range []string{"html", "xls"} {
		e := newTestExporter(t, f, nil, Pairs("a", "A & B")...)
		require.NoError(t, e.IngestRows([]map[string]any{{"a": "1 < 2 & x"}}))
		assert.Contains(t, render(t, e), "<tr><td>A &amp; B</td></tr><tr><td>1 &lt; 2 &amp; x</td></tr>", f)
	}
}

func TestXmlExport(t *testing.T) {
	e := newTestExporter(t, "xml", nil, Pairs("a", "A&B", "b")...)
	require.NoError(t, e.IngestRows([]map[string]any{
		{"a": "<b>1</b> & 2", "b": `"q"`},
	}))
	expected := `<?xml version="1.0" encoding="utf-8"?><table>` +
		`<row><column name="A&amp;B">1 &amp; 2</column><column name="b">&#34;q&#34;</column></row></table>`
	assert.Equal(t, expected, render(t, e))
}

func TestJsonExport(t *testing.T) {
	e := newTestExporter(t, "json", nil, Names("x", "y")...)
	assert.Equal(t, "[]", render(t, e))

	require.NoError(t, e.IngestRows([]map[string]any{{"y": 2, "x": 1}}))
	assert.Equal(t, `[{"x":"1","y":"2"}]`, render(t, e))
}

func TestEmptyBodies(t *testing.T) {
	for _, tc := range []struct {
		format string
		body   string
	}{
		{"csv", "a"},
		{"xml", `<?xml version="1.0" encoding="utf-8"?><table></table>`},
		{"json", "[]"},
	} {
		t.Run(tc.format, func(t *testing.T) {
			e := newTestExporter(t, tc.format, nil, Names("a")...)
			assert.Equal(t, tc.body, render(t, e))
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	for _, f := range Formats() {
		t.Run(f.String(), func(t *testing.T) {
			e := newTestExporter(t, f.String(), nil, Names("a", "b")...)
			require.NoError(t, e.IngestRows([]map[string]any{{"a": 1, "b": "x"}}))
			first := render(t, e)
			assert.Equal(t, first, render(t, e))
		})
	}
}

func TestNullHandling(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		e := newTestExporter(t, "csv", nil, Names("a", "b")...)
		err := e.IngestRows([]map[string]any{{"a": 1}})
		require.Error(t, err)
		assert.True(t, ErrFieldResolution.Has(err))
	})
	t.Run("missing field replaced", func(t *testing.T) {
		e := newTestExporter(t, "csv", map[string]any{"allow_null": true, "null_replace": "-"}, Names("a", "b")...)
		require.NoError(t, e.IngestRows([]map[string]any{{"a": 1}}))
		assert.Equal(t, "a,b\n1,-", render(t, e))
	})
	t.Run("nil value", func(t *testing.T) {
		e := newTestExporter(t, "csv", nil, Names("a", "b")...)
		require.NoError(t, e.IngestRows([]map[string]any{{"a": 1, "b": nil}}))
		assert.Equal(t, "a,b\n1, ", render(t, e))
	})
	t.Run("nil value replaced", func(t *testing.T) {
		e, err := NewExporter().Configure("csv", nil, WithMemory(), WithNullReplacement("N/A"))
		require.NoError(t, err)
		require.NoError(t, e.DeclareColumns(Names("a", "b")...))
		require.NoError(t, e.IngestRows([]map[string]any{{"a": 1, "b": nil}}))
		assert.Equal(t, "a,b\n1,N/A", render(t, e))
	})
}

func TestHookAppliesToEveryRow(t *testing.T) {
	e := newTestExporter(t, "csv", nil, Names("name", "city")...)
	require.NoError(t, e.RegisterHook(func(s string) string { return strings.ToUpper(s) }, "name"))
	require.NoError(t, e.IngestRows([]map[string]any{
		{"name": "alice", "city": "paris"},
		{"name": "bob", "city": "rome"},
	}))
	assert.Equal(t, "name,city\nALICE,paris\nBOB,rome", render(t, e))
}

func TestColumnHook(t *testing.T) {
	e := newTestExporter(t, "csv", nil,
		Column{Field: "name", Hook: BuiltinHooks["title"]},
		Column{Field: "code", Title: "Code", Hook: BuiltinHooks["upper"]},
	)
	require.NoError(t, e.IngestRows([]map[string]any{{"name": "jane doe", "code": "ab1"}}))
	assert.Equal(t, "name,Code\nJane Doe,AB1", render(t, e))
}

func TestDownloadResponse(t *testing.T) {
	e, err := NewExporter().Configure("csv", map[string]any{"filename": "users"})
	require.NoError(t, err)
	require.NoError(t, e.DeclareColumns(Names("a")...))
	require.NoError(t, e.IngestRows([]map[string]any{{"a": 1}}))

	_, err = e.Render(nil)
	require.Error(t, err)
	assert.True(t, ErrInvalidConfiguration.Has(err))

	rec := response.NewRecorder()
	body, err := e.Render(rec)
	require.NoError(t, err)
	assert.Equal(t, "a\n1", body)
	assert.Equal(t, "a\n1", string(rec.Body))
	assert.Equal(t, "text/csv", rec.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="users.csv"`, rec.Header.Get("Content-Disposition"))
	assert.Equal(t, "public", rec.Header.Get("Cache-Control"))
}

func TestDownloadContentTypes(t *testing.T) {
	for f, ct := range map[string]string{
		"csv":  "text/csv",
		"xls":  "application/vnd.ms-excel",
		"html": "text/html",
		"xml":  "application/xml",
		"json": "application/json",
	} {
		rec := response.NewRecorder()
		require.NoError(t, ToResponse(rec, f, Names("a"), []map[string]int{{"a": 1}}))
		assert.Equal(t, ct, rec.Header.Get("Content-Type"), f)
		assert.Equal(t, `attachment; filename="`+DefaultFilename+"."+f+`"`, rec.Header.Get("Content-Disposition"))
	}
}

func TestLifecycleErrors(t *testing.T) {
	_, err := NewExporter().Configure("pdf", nil)
	assert.True(t, ErrUnsupportedFormat.Has(err))

	e := NewExporter()
	err = e.DeclareColumns(Names("a")...)
	assert.True(t, ErrNotConfigured.Has(err))
	err = e.IngestRows([]map[string]any{{"a": 1}})
	assert.True(t, ErrNotConfigured.Has(err))

	_, err = e.Configure("csv", nil)
	require.NoError(t, err)
	_, err = e.Configure("json", nil)
	assert.True(t, ErrInvalidConfiguration.Has(err))

	err = e.IngestRows([]map[string]any{{"a": 1}})
	assert.True(t, ErrNotConfigured.Has(err))
	err = e.DeclareColumns()
	assert.True(t, ErrNotConfigured.Has(err))

	require.NoError(t, e.DeclareColumns(Names("a")...))
	err = e.IngestRows("not rows")
	assert.True(t, ErrInvalidRows.Has(err))
	assert.NoError(t, e.IngestRows(nil))
}

func TestPrepareDelimitedTextFormat(t *testing.T) {
	e := newTestExporter(t, "json", nil, Names("a")...)
	_, err := e.PrepareDelimitedText()
	assert.True(t, ErrInvalidConfiguration.Has(err))
}

func TestToString(t *testing.T) {
	s, err := ToString("csv", Pairs("id", "ID", "name", "Name"), []map[string]any{
		{"id": 1, "name": "a"},
	}, WithSeparator("|"))
	require.NoError(t, err)
	assert.Equal(t, "ID|Name\n1|a", s)
}
