package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCsv, f)
	assert.Equal(t, "csv", f.Suffix())
	assert.False(t, f.IsMarkup())
	assert.True(t, FormatXls.IsMarkup())

	_, err = ParseFormat("pdf")
	assert.True(t, ErrUnsupportedFormat.Has(err))
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := NewConfig("xml")
	require.NoError(t, err)
	assert.Equal(t, ",", cfg.Separator())
	assert.Equal(t, `\`, cfg.Escape())
	assert.Equal(t, EscapePrefix, cfg.EscapePolicy())
	assert.Equal(t, "utf-8", cfg.Charset())
	assert.Equal(t, "Data export.xml", cfg.Filename())
	assert.Equal(t, MaxRows, cfg.MaxRows())
	assert.False(t, cfg.Memory())
	assert.False(t, cfg.AllowNull())
	assert.False(t, cfg.HookProbe())
}

func TestConfigFromMap(t *testing.T) {
	cfg, err := ConfigFromMap("csv", map[string]any{
		"separator":     "\t",
		"escape":        "^",
		"escape_policy": "replace",
		"charset":       "gbk",
		"filename":      "report",
		"memory":        "true",
		"skip_header":   1,
		"allow_null":    true,
		"null_replace":  "NULL",
		"hook_probe":    true,
		"max_rows":      "10",
		"unknown":       struct{}{},
	})
	require.NoError(t, err)
	assert.Equal(t, "\t", cfg.Separator())
	assert.Equal(t, "^", cfg.Escape())
	assert.Equal(t, EscapeReplace, cfg.EscapePolicy())
	assert.Equal(t, "gbk", cfg.Charset())
	assert.Equal(t, "report.csv", cfg.Filename())
	assert.True(t, cfg.Memory())
	assert.True(t, cfg.SkipHeader())
	assert.True(t, cfg.AllowNull())
	assert.Equal(t, "NULL", cfg.NullReplacement())
	assert.True(t, cfg.HookProbe())
	assert.Equal(t, 10, cfg.MaxRows())
}

func TestConfigFromMapErrors(t *testing.T) {
	for name, m := range map[string]map[string]any{
		"escape policy": {"escape_policy": "drop"},
		"max rows":      {"max_rows": "many"},
		"memory":        {"memory": "perhaps"},
		"separator":     {"separator": []int{1}},
	} {
		_, err := ConfigFromMap("csv", m)
		assert.True(t, ErrInvalidConfiguration.Has(err), name)
	}

	_, err := ConfigFromMap("xls", map[string]any{"skip_header": true})
	assert.True(t, ErrInvalidConfiguration.Has(err))

	_, err = ConfigFromMap("pdf", nil)
	assert.True(t, ErrUnsupportedFormat.Has(err))
}

func TestColumnsHelpers(t *testing.T) {
	cols := Pairs("id", "ID", "name", "Name", "age")
	require.Len(t, cols, 3)
	assert.Equal(t, "ID", cols[0].Label())
	assert.Equal(t, "age", cols[2].Label())

	e := newTestExporter(t, "csv", nil, cols...)
	assert.Equal(t, []string{"id", "name", "age"}, e.columns.fields)
	assert.Equal(t, []string{"ID", "Name", "age"}, e.columns.titles)
	assert.True(t, e.columns.has("name"))
	assert.False(t, e.columns.has("Name"))
}
