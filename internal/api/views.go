package api

import (
	"net/url"

	"wpconn-dashboard/internal/listview"
)

// tableView is one session's state for one list page or tab.
type tableView[T any, F any, V any] struct {
	list *listview.State[T, F]
	form *listview.Form[V]
}

func newTableView[T any, F any, V any](pageSize int, key func(T) string, filter F) *tableView[T, F, V] {
	return &tableView[T, F, V]{
		list: listview.NewState(pageSize, key, filter),
		form: listview.NewForm[V](),
	}
}

func (v *tableView[T, F, V]) Close() {
	v.list.Close()
	v.form.Close()
}

type tabLink struct {
	Key    string
	Label  string
	URL    string
	Active bool
}

// tableModel is what the list templates render.
type tableModel[T any, F any, V any] struct {
	listview.Snapshot[T, F]
	Path string
	Tab  string
	Tabs []tabLink
	Form listview.FormView[V]
}

func newTableModel[T any, F any, V any](path, tab string, v *tableView[T, F, V]) tableModel[T, F, V] {
	return tableModel[T, F, V]{
		Snapshot: v.list.Snapshot(),
		Path:     path,
		Tab:      tab,
		Form:     v.form.View(),
	}
}

// Link builds a URL for this view with the given extra query.
func (m tableModel[T, F, V]) Link(extra string) string {
	q := url.Values{}
	if m.Tab != "" {
		q.Set("tab", m.Tab)
	}
	out := m.Path
	if enc := q.Encode(); enc != "" {
		out += "?" + enc
		if extra != "" {
			out += "&" + extra
		}
	} else if extra != "" {
		out += "?" + extra
	}
	return out
}

type tabDef struct {
	key   string
	label string
}

// pickTab returns the requested tab if it is known, else the first one.
func pickTab(requested string, tabs []tabDef) string {
	for _, t := range tabs {
		if t.key == requested {
			return requested
		}
	}
	return tabs[0].key
}

func tabLinks(path, active string, tabs []tabDef) []tabLink {
	links := make([]tabLink, 0, len(tabs))
	for _, t := range tabs {
		links = append(links, tabLink{
			Key:    t.key,
			Label:  t.label,
			URL:    path + "?tab=" + url.QueryEscape(t.key),
			Active: t.key == active,
		})
	}
	return links
}
