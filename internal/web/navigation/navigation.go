// Package navigation builds the menu and breadcrumbs of the backoffice pages.
package navigation

import "slices"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// MenuItem is an entry of the backoffice menu.
type MenuItem struct {
	Title   string
	URL     string
	Section string
	// Roles lists the role aliases that see the item, empty for everyone signed in.
	Roles []string
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	PageTitle     string
	Breadcrumbs   []BreadcrumbItem
	Menu          []MenuItem
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
		Menu:          make([]MenuItem, 0),
	}
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// WithMenu keeps the menu items visible to a user holding roles.
func (c *Context) WithMenu(roles []string, items ...MenuItem) *Context {
	for _, item := range items {
		if item.VisibleTo(roles) {
			c.Menu = append(c.Menu, item)
		}
	}

	return c
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// VisibleTo reports whether a user holding roles sees the item.
func (m MenuItem) VisibleTo(roles []string) bool {
	if len(m.Roles) == 0 {
		return true
	}

	for _, r := range m.Roles {
		if slices.Contains(roles, r) {
			return true
		}
	}

	return false
}
