// Package fuzztests houses Go fuzz harnesses for the scanning pipeline
// (source -> lexer -> scan). They guard against panics, lost bytes in the
// token stream and runaway nesting on arbitrary inputs.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер и сканер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
