package invz

import "strings"

// frameIndent is how many columns each nesting level indents rendered output.
const frameIndent = 2

// Frame is the execution context the engine passes explicitly to every
// forward and inverse call. It carries the pipeline nesting depth and the
// matching indentation for rendering, making the engine's bookkeeping a
// visible, typed part of every transform's interface instead of an implicit
// side channel.
//
// A top-level Task.Run or Task.Inverse uses the zero Frame. When a compiled
// Task is re-wrapped as a Component (see Task.Component) and executed inside
// an outer pipeline, its steps receive the outer frame's Nested form.
//
// Frame is immutable; transforms that spawn nested execution derive child
// frames with Nested rather than mutating their own.
type Frame struct {
	// Level is the pipeline nesting depth, zero at the top level.
	Level int

	// Indent is the rendering indentation in columns, derived from Level.
	Indent int
}

// Nested returns the child frame for execution one pipeline level deeper.
func (f Frame) Nested() Frame {
	return Frame{Level: f.Level + 1, Indent: f.Indent + frameIndent}
}

// Prefix returns the indentation prefix for rendering output at this
// frame's depth.
func (f Frame) Prefix() string {
	return strings.Repeat(" ", f.Indent)
}
