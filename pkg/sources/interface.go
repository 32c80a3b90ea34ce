package sources

// Candidate is a folder that holds a story.
type Candidate struct {
	Slug string
	Dir  string
}

// Discovery is the result of scanning a source tree.
type Discovery struct {
	Candidates []Candidate
	// Duplicates are folders whose slug was already taken by an earlier one.
	Duplicates []Candidate
}

// Source finds stories and their per-language files.
type Source interface {
	Discover() (*Discovery, error)
	StoryFile(dir, lang string) (string, error)
}

// Slugs returns the discovered slugs in discovery order.
func (d *Discovery) Slugs() []string {
	slugs := make([]string, len(d.Candidates))
	for i, c := range d.Candidates {
		slugs[i] = c.Slug
	}
	return slugs
}

// Dirs maps each discovered slug to its folder.
func (d *Discovery) Dirs() map[string]string {
	dirs := make(map[string]string, len(d.Candidates))
	for _, c := range d.Candidates {
		dirs[c.Slug] = c.Dir
	}
	return dirs
}
