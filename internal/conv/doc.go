// Package conv provides checked integer conversions for values read from or
// written to embedding files (counts, lengths, shapes).
package conv
