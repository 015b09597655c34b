// Package tool provides the types an agent runtime needs to advertise and
// invoke tools.
//
// A [Tool] wraps a typed Go function together with its name, description and
// auto-derived JSON schemas. [GenericTool] erases the type parameters so tools
// can be stored side by side, [Toolset] groups tools that belong together,
// and [Catalog] is a thread-safe, case-insensitive registry of tools.
// [ValidateInput] checks model-supplied arguments against a tool's schema
// before the tool is called.
package tool
