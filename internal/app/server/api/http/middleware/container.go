package middleware

import "github.com/danielgtaylor/huma/v2"

// Container collects the middleware chain for one handler. Add builds
// the chain in order; GetAllAndClear hands it over and resets the
// container for the next handler.
type Container struct {
	chain huma.Middlewares
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Add(m func(huma.Context, func(huma.Context))) {
	c.chain = append(c.chain, m)
}

func (c *Container) GetAllAndClear() huma.Middlewares {
	chain := c.chain
	c.chain = nil
	return chain
}
