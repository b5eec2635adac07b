package navigation

// BreadcrumbItem is a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// Context describes the navigation state of one page: the active
// section and page plus the breadcrumb trail leading to it.
type Context struct {
	ActiveSection string           `json:"active_section"`
	ActivePage    string           `json:"active_page"`
	Breadcrumbs   []BreadcrumbItem `json:"breadcrumbs"`
	PageTitle     string           `json:"page_title"`
}

// ContextFor derives the context for path from a navigation tree,
// usually the resolved tree of the current principal. The trail starts
// at Home; pages nested under a group carry the group header as an
// intermediate crumb. Returns nil when no item in the tree matches
// path.
func ContextFor(tree []Item, path string) *Context {
	if path == "" {
		return nil
	}

	for _, item := range tree {
		if item.Path == path {
			ctx := &Context{
				PageTitle:     item.Label,
				ActiveSection: item.ID,
				ActivePage:    item.ID,
			}
			ctx.add("Home", "/", false)
			ctx.add(item.Label, item.Path, true)

			return ctx
		}

		for _, child := range item.Children {
			if child.Path != path {
				continue
			}

			ctx := &Context{
				PageTitle:     child.Label,
				ActiveSection: item.ID,
				ActivePage:    child.ID,
			}
			ctx.add("Home", "/", false)
			ctx.add(item.Label, item.Path, false)
			ctx.add(child.Label, child.Path, true)

			return ctx
		}
	}

	return nil
}

func (c *Context) add(title, url string, active bool) {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})
}
