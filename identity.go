package invz

// Identity is the fixed metadata of a transform: its name and an optional
// human-readable description. An Identity is declared once, at registration
// time, and never changes; generators, Components, and compiled Task steps
// all expose the same Identity for introspection and tooling (for example
// pipeline visualization). It plays no role in execution semantics.
//
// Example:
//
//	var NormalizeID = invz.NewIdentity("normalize", "Scales values into the unit interval.")
type Identity struct {
	name        Name
	description string
}

// NewIdentity creates an Identity with the given name and description.
// The description may be empty.
func NewIdentity(name Name, description string) Identity {
	return Identity{name: name, description: description}
}

// Name returns the transform's name.
func (i Identity) Name() Name {
	return i.name
}

// Description returns the transform's description, which may be empty.
func (i Identity) Description() string {
	return i.description
}

// String returns the name, making Identity convenient in formatted output.
func (i Identity) String() string {
	return string(i.name)
}
