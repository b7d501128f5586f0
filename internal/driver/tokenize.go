package driver

import (
	"apiscan/internal/diag"
	"apiscan/internal/lexer"
	"apiscan/internal/source"
	"apiscan/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads path and returns its full token stream, trivia included.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fs.Get(fileID), maxDiagnostics), nil
}

// TokenizeInput tokenizes in-memory content.
func TokenizeInput(in Input, maxDiagnostics int) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.Get(fs.AddVirtual(in.Path, in.Content)), maxDiagnostics)
}

func tokenizeFile(fs *source.FileSet, file *source.File, maxDiagnostics int) *TokenizeResult {
	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
}
