package database

import (
	"fmt"
	"strings"
)

// 这个文件提供跨SQLite/PostgreSQL的SQL方言辅助函数。
// 投影查询和建表语句里所有与方言相关的片段都必须经由这里生成，
// 不允许在其他包里直接写 GROUP_CONCAT 或 AUTOINCREMENT。

// GroupConcat 生成把一组行内的表达式拼接成单个字符串的聚合表达式
func GroupConcat(expr, separator string) string {
	if activeDriver == DriverPostgres {
		return fmt.Sprintf("STRING_AGG(CAST(%s AS TEXT), %s)", expr, StringLiteral(separator))
	}
	return fmt.Sprintf("GROUP_CONCAT(%s, %s)", expr, StringLiteral(separator))
}

// Concat 生成按顺序连接若干表达式的表达式，两种方言都使用 || 运算符
func Concat(parts ...string) string {
	return strings.Join(parts, " || ")
}

// AutoIncrementPrimaryKey 生成自增主键列的DDL片段
func AutoIncrementPrimaryKey() string {
	if activeDriver == DriverPostgres {
		return "BIGSERIAL PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

// StringLiteral 把Go字符串转义成SQL字符串字面量
// 只用于分隔符等内部常量，用户输入一律走参数绑定
func StringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteIdentifier 给标识符加引号，两种方言都接受双引号
// 主要用于 set 这类同时是SQL关键字的表名
func QuoteIdentifier(name string) string {
	return `"` + name + `"`
}
