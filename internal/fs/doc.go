// Package fs abstracts the file operations used to write embedding files,
// so that tests can inject I/O faults.
//
// Production code uses Default, backed by the os package:
//
//	err := fs.WriteAtomic(fs.Default, "vectors.r2v", func(w io.Writer) error {
//		return wordvec.WriteEmbeddings(w, e)
//	})
//
// Tests wrap a FileSystem in a FaultyFS to make writes, syncs or closes
// fail:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".r2v", fs.Fault{FailAfterBytes: 1024})
package fs
