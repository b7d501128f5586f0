// Package comments buffers documentation comments and hands them to declarations.
//
// A Store is owned by a single file analysis. Doc comments that follow each other
// with no blank line are merged into one Block. Ordinary comments never carry text
// but keep the block alive, so a doc block followed by a plain comment line still
// documents the declaration below them. A blank line, a directive or any
// significant token that is not the head of a declaration clears the block.
package comments
