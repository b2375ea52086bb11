// Package model defines the data structures for shader reduction.
package model

// Path represents a file system path.
type Path string

// File represents a job file on disk.
type File struct {
	Path Path
	Hash string
}

// Job is a stored shader job: a serialized shader tree plus the metadata
// needed to replay it against a test oracle.
type Job struct {
	// Name identifies the job, typically the file stem.
	Name string
	// Tree is the variant-tagged JSON encoding of the shader module,
	// markers included.
	Tree []byte
	// EntryPoint is the compute or fragment entry to invoke.
	EntryPoint string
	// Seed is the generator seed the job was produced from, if known.
	Seed *uint64
}
