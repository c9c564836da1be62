package convert

// Scope controls which outputs a conversion run produces.
type Scope string

const (
	// ScopeAll converts the world definition and every existing tile.
	ScopeAll Scope = "all"
	// ScopeWorld converts only the world definition file.
	ScopeWorld Scope = "world"
	// ScopeTiles converts only the per-tile area files.
	ScopeTiles Scope = "tiles"
)

// IncludesWorld returns true if the scope covers the world definition.
func (s Scope) IncludesWorld() bool {
	return s == ScopeAll || s == ScopeWorld
}

// IncludesTiles returns true if the scope covers the area files.
func (s Scope) IncludesTiles() bool {
	return s == ScopeAll || s == ScopeTiles
}
