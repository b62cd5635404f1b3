package maryxml

// Entry is one word and its pronunciation.
type Entry struct {
	Word          string
	Pronunciation string
}

// Dictionary maps a word spelling to its single pronunciation. Lookups are
// exact and case sensitive. Words are kept in first-seen order.
type Dictionary struct {
	entries map[string]string
	order   []string
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string]string)}
}

// BuildDictionary collects the annotated tokens of doc. The first
// occurrence of a word defines its pronunciation; a later occurrence with
// a different one fails with a *ConsistencyError and no dictionary.
func BuildDictionary(doc *Document) (*Dictionary, error) {
	dict := NewDictionary()
	if doc == nil {
		return dict, nil
	}

	for _, p := range doc.Paragraphs {
		for _, s := range p.Sentences {
			for _, t := range s.Tokens {
				if !t.HasPhoneme {
					continue
				}
				if err := dict.Add(t.Text, t.Phoneme); err != nil {
					return nil, err
				}
			}
		}
	}

	return dict, nil
}

// BuildDictionaryFile parses the MaryXML file at path and builds its dictionary.
func BuildDictionaryFile(path string) (*Dictionary, error) {
	m, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return BuildDictionary(Traverse(m))
}

// Add records the pronunciation of word, failing with a *ConsistencyError
// if word is already known with a different one.
func (d *Dictionary) Add(word, pronunciation string) error {
	existing, ok := d.entries[word]
	if !ok {
		d.entries[word] = pronunciation
		d.order = append(d.order, word)
		return nil
	}
	if existing != pronunciation {
		return &ConsistencyError{Word: word, Existing: existing, Conflicting: pronunciation}
	}
	return nil
}

// Lookup returns the pronunciation of word.
func (d *Dictionary) Lookup(word string) (string, bool) {
	p, ok := d.entries[word]
	return p, ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	return len(d.order)
}

// Entries returns all entries in first-seen order.
func (d *Dictionary) Entries() []Entry {
	entries := make([]Entry, 0, len(d.order))
	for _, w := range d.order {
		entries = append(entries, Entry{Word: w, Pronunciation: d.entries[w]})
	}
	return entries
}

// Map returns a copy of the word to pronunciation mapping.
func (d *Dictionary) Map() map[string]string {
	result := make(map[string]string, len(d.entries))
	for k, v := range d.entries {
		result[k] = v
	}
	return result
}

// Merge adds the entries of other under the same consistency rule. On
// conflict d is left unchanged.
func (d *Dictionary) Merge(other *Dictionary) error {
	if other == nil {
		return nil
	}

	for _, w := range other.order {
		if existing, ok := d.entries[w]; ok && existing != other.entries[w] {
			return &ConsistencyError{Word: w, Existing: existing, Conflicting: other.entries[w]}
		}
	}

	for _, w := range other.order {
		if _, ok := d.entries[w]; !ok {
			d.entries[w] = other.entries[w]
			d.order = append(d.order, w)
		}
	}

	return nil
}
