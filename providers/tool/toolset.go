package tool

// Toolset is a named group of tools registered together, e.g. every tool
// backed by one remote service.
type Toolset interface {
	Name() string
	Tools() []GenericTool
}
