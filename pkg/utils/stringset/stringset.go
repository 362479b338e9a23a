package stringset

type StringSet map[string]struct{}

func New(items ...string) StringSet {
	ss := StringSet{}
	for _, s := range items {
		ss.Add(s)
	}
	return ss
}

func (ss StringSet) Add(s string) StringSet {
	ss[s] = struct{}{}
	return ss
}

func (ss StringSet) Remove(s string) StringSet {
	delete(ss, s)
	return ss
}

func (ss StringSet) Contains(s string) bool {
	_, ok := ss[s]
	return ok
}

// Clone is used to fork a visited set per traversal path
func (ss StringSet) Clone() StringSet {
	c := make(StringSet, len(ss)+1)
	for s := range ss {
		c[s] = struct{}{}
	}
	return c
}
