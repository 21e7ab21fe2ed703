package export

// Column 导出列
type Column struct {
	Field string  //字段名，用来从行数据取值
	Title string  //列名，为空时使用Field
	Hook  any     //单元格数据处理，同 RegisterHook 的 target
	Width float64 //列宽度,导出xlsx时支持
}

// Names 只有字段名的列
func Names(fields ...string) []Column {
	cols := make([]Column, len(fields))
	for i := range fields {
		cols[i] = Column{Field: fields[i]}
	}
	return cols
}

// Pairs 按 字段名,列名,字段名,列名... 生成列，最后落单的字段名同时作为列名
func Pairs(fieldTitles ...string) []Column {
	cols := make([]Column, 0, (len(fieldTitles)+1)/2)
	for i := 0; i < len(fieldTitles); i += 2 {
		c := Column{Field: fieldTitles[i]}
		if i+1 < len(fieldTitles) {
			c.Title = fieldTitles[i+1]
		}
		cols = append(cols, c)
	}
	return cols
}

// Label 展示的列名
func (c Column) Label() string {
	if c.Title == "" {
		return c.Field
	}
	return c.Title
}

type columns struct {
	list     []Column         //导出列
	fields   []string         //导出字段名
	titles   []string         //导出列名
	keyIndex map[string][]int //列字段索引映射
	hooks    map[string]Hook  //列字段渲染函数映射
}

func newColumns() *columns {
	return &columns{
		keyIndex: make(map[string][]int),
		hooks:    make(map[string]Hook),
	}
}

func (c *columns) add(col Column) {
	c.keyIndex[col.Field] = append(c.keyIndex[col.Field], len(c.list))
	c.list = append(c.list, col)
	c.fields = append(c.fields, col.Field)
	c.titles = append(c.titles, col.Label())
}

func (c *columns) has(field string) bool {
	_, ok := c.keyIndex[field]
	return ok
}

func (c *columns) nums() int {
	return len(c.list)
}
