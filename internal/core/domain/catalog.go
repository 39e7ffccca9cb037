package domain

import "go.trai.ch/zerr"

// defaultEntries is the built-in sample catalog. NumberClassifier appears
// three times on purpose, once per flattening configuration.
var defaultEntries = [...]BuildEntry{
	{Kind: Executable, Source: "ArithmeticBonanza.c", Config: "ArithmeticMangler"},
	{Kind: Executable, Source: "ConstantPaloozaRedux.c", Config: "ConstantMangler"},
	{Kind: Executable, Source: "DoubleSwitch.c", Config: "Flattener"},
	{Kind: Executable, Source: "Hello.c", Config: "Default"},
	{Kind: Executable, Source: "NumberClassifier.c", Config: "Flattener"},
	{Kind: Executable, Source: "NumberClassifier.c", Config: "FlattenerRandomIDs"},
	{Kind: Executable, Source: "SimpleBlocks.c", Config: "Bloater"},
	{Kind: Executable, Source: "SayHello.c", Config: "StringObfuscator"},
	{Kind: Library, Source: "SayHelloLibrary.c", Config: "StringObfuscator"},
	{Kind: Executable, Source: "NumberClassifier.c", Config: "Everything"},
}

// Catalog is the ordered, read-only list of samples for a run together with
// the layout its paths are resolved against.
type Catalog struct {
	// Root is the directory relative layout paths are resolved from.
	Root    string
	Layout  Layout
	Entries []BuildEntry
}

// DefaultCatalog returns the built-in catalog rooted at root.
func DefaultCatalog(root string) *Catalog {
	entries := make([]BuildEntry, len(defaultEntries))
	copy(entries, defaultEntries[:])
	return &Catalog{
		Root:    root,
		Layout:  DefaultLayout(),
		Entries: entries,
	}
}

// Validate checks that every entry names a source, that no two entries share
// both source and config, and that a short name always maps to one source and kind.
// Together these keep transform-enabled artifact names unique and make the
// shared untransformed artifacts of one source byte-identical.
func (c *Catalog) Validate() error {
	type key struct{ source, config string }
	seen := make(map[key]int, len(c.Entries))
	firsts := make(map[string]BuildEntry, len(c.Entries))

	for i, e := range c.Entries {
		if e.Source == "" {
			return zerr.With(ErrMissingSource, "index", i)
		}
		if e.ShortName() == "" {
			return zerr.With(ErrInvalidSource, "source", e.Source)
		}
		if e.Kind != Executable && e.Kind != Library {
			return zerr.With(ErrInvalidProgramKind, "source", e.Source)
		}

		k := key{e.Source, e.ConfigTag()}
		if prev, ok := seen[k]; ok {
			return zerr.With(zerr.With(ErrDuplicateSample, "sample", e.String()), "first_index", prev)
		}
		seen[k] = i

		first, ok := firsts[e.ShortName()]
		if !ok {
			firsts[e.ShortName()] = e
			continue
		}
		if first.Source != e.Source || first.Kind != e.Kind {
			return zerr.With(zerr.With(ErrAmbiguousShortName, "source", e.Source), "other", first.Source)
		}
	}
	return nil
}
