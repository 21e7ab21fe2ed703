package profile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opdss/dataexporter/export"
)

const users = `
format: csv
options:
  separator: ";"
  filename: users
  memory: true
columns:
  - field: id
    title: ID
    width: 8
  - field: name
    hook: upper
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(users))
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Format)
	assert.Equal(t, ";", p.Options["separator"])
	require.Len(t, p.Columns, 2)
	assert.Equal(t, 8.0, p.Columns[0].Width)

	e, err := p.NewExporter()
	require.NoError(t, err)
	require.NoError(t, e.IngestRows([]map[string]any{{"id": 1, "name": "ann"}}))
	body, err := e.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "ID;name\n1;ANN", body)
	assert.Equal(t, "users.csv", e.Filename())
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(file, []byte(users), 0o600))
	p, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "ID", p.ExportColumns()[0].Label())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, ErrProfile.Has(err))
}

func TestFromViper(t *testing.T) {
	vip := viper.New()
	vip.SetConfigType("yaml")
	require.NoError(t, vip.ReadConfig(bytes.NewBufferString(`
profiles:
  orders:
    format: json
    options:
      memory: true
    columns:
      - field: sn
      - field: total
        title: Total
`)))
	p, err := FromViper(vip, "profiles.orders")
	require.NoError(t, err)
	e, err := p.NewExporter()
	require.NoError(t, err)
	require.NoError(t, e.IngestRows([]map[string]any{{"sn": "A1", "total": 9.5}}))
	body, err := e.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, `[{"sn":"A1","Total":"9.5"}]`, body)

	_, err = FromViper(vip, "profiles.missing")
	assert.True(t, ErrProfile.Has(err))
}

func TestValidate(t *testing.T) {
	for name, doc := range map[string]string{
		"no columns": "format: csv\n",
		"no field":   "format: csv\ncolumns:\n  - title: X\n",
		"bad hook":   "format: csv\ncolumns:\n  - field: a\n    hook: shout\n",
		"bad yaml":   "format: [csv\n",
	} {
		_, err := Parse([]byte(doc))
		assert.True(t, ErrProfile.Has(err), name)
	}

	_, err := Parse([]byte("format: pdf\ncolumns:\n  - field: a\n"))
	assert.True(t, export.ErrUnsupportedFormat.Has(err))
}
