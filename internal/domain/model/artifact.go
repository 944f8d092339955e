package model

// EntryPoint is the file the static host serves at the site root.
const EntryPoint = "index.html"

// Artifact is one generated file, path relative to the repository root.
type Artifact struct {
	Path    string
	Content string
}

// ArtifactSet is the ordered set of files that make up the generated site.
// Order is the commit order; immutable after the generator returns it.
type ArtifactSet struct {
	files []Artifact
}

func NewArtifactSet() *ArtifactSet { return &ArtifactSet{} }

// Add appends a file, replacing an existing entry with the same path.
func (s *ArtifactSet) Add(path, content string) {
	for i := range s.files {
		if s.files[i].Path == path {
			s.files[i].Content = content
			return
		}
	}
	s.files = append(s.files, Artifact{Path: path, Content: content})
}

func (s *ArtifactSet) Has(path string) bool {
	for i := range s.files {
		if s.files[i].Path == path {
			return true
		}
	}
	return false
}

func (s *ArtifactSet) Get(path string) (string, bool) {
	for i := range s.files {
		if s.files[i].Path == path {
			return s.files[i].Content, true
		}
	}
	return "", false
}

// Files returns the entries in insertion order.
func (s *ArtifactSet) Files() []Artifact { return s.files }

func (s *ArtifactSet) Len() int { return len(s.files) }

// HasEntryPoint reports whether the set is usable as a static site.
func (s *ArtifactSet) HasEntryPoint() bool { return s.Has(EntryPoint) }
