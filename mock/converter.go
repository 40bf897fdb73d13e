package mock

import "github.com/fwojciec/newsread"

var _ newsread.Converter = (*Converter)(nil)

// Converter is a mock implementation of newsread.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
