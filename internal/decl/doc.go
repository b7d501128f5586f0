// Package decl classifies token runs into declaration shapes.
//
// A run is the sequence of significant tokens since the last terminator:
// ';', a scope-opening '{' or '}'. The recognizer is heuristic and total:
// every run yields either declarations or nothing, it never reports errors.
// An unnamed struct, union, class or enum that is not part of a typedef is
// still declared, under a name such as "<anonymous@union:12>".
//
// Entry points follow the terminator that ends the run:
//
//	Recognize           ';'
//	RecognizeOpen       '{'
//	RecognizeTail       ';' after the '}' of a class, struct, union or enum body
//	RecognizeEnumerator ',' or '}' inside an enumerator list
//	AccessLabel         ':' inside a class or struct
//	RecognizeMacro      a #define directive
package decl
