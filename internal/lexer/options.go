package lexer

import (
	"apiscan/internal/diag"
	"apiscan/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем, но продолжаем лексить
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevWarning, sp, msg, nil)
	}
}
