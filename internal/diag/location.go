package diag

// Location points at a declaration: the manifest file and the dotted path
// of enclosing blocks and the declared name, e.g. "EXAMPLE.SUM.acc".
type Location struct {
	File string
	Path string
}

// IsZero reports whether the location is empty.
func (l Location) IsZero() bool {
	return l.File == "" && l.Path == ""
}

func (l Location) String() string {
	switch {
	case l.File == "":
		return l.Path
	case l.Path == "":
		return l.File
	default:
		return l.File + ":" + l.Path
	}
}

// Child extends the path with one more segment.
func (l Location) Child(name string) Location {
	if l.Path == "" {
		return Location{File: l.File, Path: name}
	}
	return Location{File: l.File, Path: l.Path + "." + name}
}
