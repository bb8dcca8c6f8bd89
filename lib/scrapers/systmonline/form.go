package systmonline

import (
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrFormNotFound means the expected form is missing from the current
// page, usually because the session expired or the portal changed its
// page shape.
var ErrFormNotFound = errors.New("form not found on the current page")

// FormValue is the value of one form field. The portal reuses a single
// field name for every selected medication, so a field holds either one
// value or an ordered list of them.
type FormValue struct {
	multi  bool
	values []string
}

func Single(value string) FormValue {
	return FormValue{values: []string{value}}
}

func Multiple(values ...string) FormValue {
	return FormValue{multi: true, values: values}
}

func (v FormValue) Multi() bool {
	return v.multi
}

// Values returns every value in encounter order.
func (v FormValue) Values() []string {
	return v.values
}

func (v FormValue) Value() string {
	if len(v.values) == 0 {
		return ""
	}
	return v.values[0]
}

func (v FormValue) push(value string) FormValue {
	return FormValue{multi: true, values: append(v.values, value)}
}

// FormData is the hidden state of one portal form, captured from the
// most recent page and replayed on the next submission. Field order is
// preserved.
type FormData struct {
	names  []string
	fields map[string]FormValue
}

func NewFormData() *FormData {
	return &FormData{fields: map[string]FormValue{}}
}

// Add records a scraped field, folding a repeated name into a Multiple
// value in document order.
func (f *FormData) Add(name, value string) {
	existing, ok := f.fields[name]
	if ok {
		f.fields[name] = existing.push(value)
		return
	}
	f.names = append(f.names, name)
	f.fields[name] = Single(value)
}

func (f *FormData) Set(name string, value FormValue) {
	if _, ok := f.fields[name]; !ok {
		f.names = append(f.names, name)
	}
	f.fields[name] = value
}

func (f *FormData) Get(name string) (FormValue, bool) {
	v, ok := f.fields[name]
	return v, ok
}

func (f *FormData) Names() []string {
	return f.names
}

func (f *FormData) Encode() url.Values {
	out := url.Values{}
	for _, name := range f.names {
		out[name] = append([]string(nil), f.fields[name].values...)
	}
	return out
}

// ExtractFormData scrapes the hidden inputs of the POST form whose
// action attribute equals `action` on the last retrieved page. Hidden
// fields carry the portal's workflow state and must be re-read from the
// most recent response before every submission: replaying stale state
// gets the request rejected server-side.
func (c *Client) ExtractFormData(action string) (*FormData, error) {
	if c.page == nil {
		return nil, ErrFormNotFound
	}

	var form *goquery.Selection
	c.page.Find("form").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(s.AttrOr("method", ""), "post") {
			return true
		}
		if s.AttrOr("action", "") != action {
			return true
		}
		form = s
		return false
	})
	if form == nil {
		return nil, ErrFormNotFound
	}

	data := NewFormData()
	form.Find("input").Each(func(_ int, input *goquery.Selection) {
		// the portal writes input types in uppercase
		if !strings.EqualFold(input.AttrOr("type", ""), "hidden") {
			return
		}
		name := input.AttrOr("name", "")
		if name == "" {
			return
		}
		data.Add(name, input.AttrOr("value", ""))
	})
	return data, nil
}
