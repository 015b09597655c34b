package tool

import (
	"sort"
	"strings"
	"sync"
)

// Catalog is a thread-safe registry of tools keyed by lowercase name.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]GenericTool
}

// NewCatalog creates a new empty tool catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tools: make(map[string]GenericTool),
	}
}

// NewCatalogWithTools creates a new catalog pre-populated with the given tools.
// Tool names are taken from each tool's ToolInfo().Name.
func NewCatalogWithTools(tools ...GenericTool) *Catalog {
	catalog := NewCatalog()
	catalog.AddTools(tools...)
	return catalog
}

// NewCatalogFromToolset creates a catalog holding every tool of ts.
func NewCatalogFromToolset(ts Toolset) *Catalog {
	catalog := NewCatalog()
	catalog.AddToolset(ts)
	return catalog
}

// AddTools registers tools under their lowercase ToolInfo().Name, replacing
// any tool already registered under that name.
func (c *Catalog) AddTools(tools ...GenericTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		info := t.ToolInfo()
		c.tools[strings.ToLower(info.Name)] = t
	}
}

// AddToolset registers every tool of ts. A nil toolset is ignored.
func (c *Catalog) AddToolset(ts Toolset) {
	if ts == nil {
		return
	}
	c.AddTools(ts.Tools()...)
}

// Get retrieves a tool by name (case-insensitive).
// Returns the tool and true if found, nil and false otherwise.
func (c *Catalog) Get(name string) (GenericTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tool, exists := c.tools[strings.ToLower(name)]
	return tool, exists
}

// Has checks if a tool with the given name exists (case-insensitive).
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.tools[strings.ToLower(name)]
	return exists
}

// Remove removes a tool from the catalog by name (case-insensitive).
// Returns true if the tool was found and removed, false otherwise.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	lowerName := strings.ToLower(name)
	if _, exists := c.tools[lowerName]; exists {
		delete(c.tools, lowerName)
		return true
	}
	return false
}

// Clear removes all tools from the catalog.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools = make(map[string]GenericTool)
}

// Tools returns a copy of the internal tool map.
// The returned map can be safely modified without affecting the catalog.
func (c *Catalog) Tools() map[string]GenericTool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	catalogCopy := make(map[string]GenericTool, len(c.tools))
	for name, tool := range c.tools {
		catalogCopy[name] = tool
	}
	return catalogCopy
}

// Size returns the number of tools in the catalog.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Merge adds all tools from another catalog into this one.
// If a tool with the same name already exists, it will be replaced with the one from 'other'.
func (c *Catalog) Merge(other *Catalog) {
	if other == nil || other == c {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	other.mu.RLock()
	defer other.mu.RUnlock()

	for name, tool := range other.tools {
		c.tools[name] = tool
	}
}

// Clone returns an independent copy of the catalog. The tools themselves
// are shared.
func (c *Catalog) Clone() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	clone := NewCatalog()
	for name, tool := range c.tools {
		clone.tools[name] = tool
	}
	return clone
}

// Names returns the registered tool names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
