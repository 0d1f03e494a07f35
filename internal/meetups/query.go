package meetups

import (
	"fmt"
	"net/url"

	"github.com/oapi-codegen/runtime"
)

// DefaultPageSize is how many items a list call fetches per page.
const DefaultPageSize = 10

// Page is a limit/offset window into a list endpoint.
type Page struct {
	Limit  int
	Offset int
}

// FirstPage returns the first page of DefaultPageSize items.
func FirstPage() Page {
	return Page{Limit: DefaultPageSize}
}

// Next returns the page following p.
func (p Page) Next() Page {
	return Page{Limit: p.Limit, Offset: p.Offset + p.Limit}
}

func (p Page) encode(q url.Values) error {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if err := addQuery(q, "limit", limit); err != nil {
		return err
	}
	if p.Offset < 0 {
		return fmt.Errorf("negative offset %d", p.Offset)
	}
	return addQuery(q, "offset", p.Offset)
}

// addQuery serialises value as a form-style, exploded query parameter.
func addQuery(q url.Values, name string, value any) error {
	frag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return fmt.Errorf("encoding query parameter %s: %w", name, err)
	}
	parsed, err := url.ParseQuery(frag)
	if err != nil {
		return fmt.Errorf("encoding query parameter %s: %w", name, err)
	}
	for k, vs := range parsed {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return nil
}
