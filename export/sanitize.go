package export

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// toString 单元格值转字符串，cast 不支持的类型使用 fmt
func toString(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// stripTags 去掉html标签，只保留文本
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// escapeDelimiter 处理单元格中的分隔符
// EscapePrefix 同时把转义符写成两个，保证 SplitEscaped 能还原
func escapeDelimiter(s, sep, esc string, policy EscapePolicy) string {
	if sep == "" {
		return s
	}
	if policy == EscapeReplace {
		return strings.ReplaceAll(s, sep, esc)
	}
	if esc == "" || !strings.Contains(s, sep) && !strings.Contains(s, esc) {
		return s
	}
	return strings.NewReplacer(esc, esc+esc, sep, esc+sep).Replace(s)
}

// normalizeNewlines 换行替换成空格
func normalizeNewlines(s string) string {
	return newlineReplacer.Replace(s)
}

func escapeXml(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// SplitEscaped 按分隔符拆分一行，是 EscapePrefix 的逆操作
// 转义符+分隔符 还原为分隔符，两个转义符还原为一个
func SplitEscaped(line, sep, esc string) []string {
	if sep == "" {
		return []string{line}
	}
	var (
		parts []string
		cur   strings.Builder
	)
	for len(line) > 0 {
		switch {
		case esc != "" && strings.HasPrefix(line, esc+esc):
			cur.WriteString(esc)
			line = line[2*len(esc):]
		case esc != "" && strings.HasPrefix(line, esc+sep):
			cur.WriteString(sep)
			line = line[len(esc)+len(sep):]
		case strings.HasPrefix(line, sep):
			parts = append(parts, cur.String())
			cur.Reset()
			line = line[len(sep):]
		default:
			cur.WriteByte(line[0])
			line = line[1:]
		}
	}
	return append(parts, cur.String())
}

func upper(s string) string { return strings.ToUpper(s) }

func lower(s string) string { return strings.ToLower(s) }

func trim(s string) string { return strings.TrimSpace(s) }

func title(s string) string { return cases.Title(language.Und).String(s) }
