package model

// FileEvent describes a change to a watched input file.
type FileEvent struct {
	Path      string
	Operation string
}
