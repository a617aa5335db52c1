package pricing

// DefaultMaxDepth bounds nested attribute expansion.
const DefaultMaxDepth = 8

// Calculator resolves attribute costs against a catalog. It holds no mutable state and is
// safe for concurrent use as long as the catalog is.
type Calculator struct {
	catalog  Catalog
	maxDepth int
}

type Option func(*Calculator)

// WithMaxDepth overrides DefaultMaxDepth. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *Calculator) {
		if depth >= 1 {
			c.maxDepth = depth
		}
	}
}

func NewCalculator(catalog Catalog, opts ...Option) *Calculator {
	c := &Calculator{catalog: catalog, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxDepth reports the nesting depth guard in effect.
func (c *Calculator) MaxDepth() int {
	return c.maxDepth
}

// resolveOption looks up optionID and checks it belongs to def. Zero means no selection.
func (c *Calculator) resolveOption(def AttributeDefinition, optionID int64) (*AttributeOption, error) {
	if optionID == 0 {
		return nil, nil
	}
	opt, ok := c.catalog.Option(optionID)
	if !ok {
		return nil, validationError("option %d does not exist", optionID).With("attribute_id", def.ID)
	}
	if opt.AttributeID != def.ID {
		return nil, validationError("option %d does not belong to attribute %d", optionID, def.ID).
			With("attribute_id", def.ID).
			With("option_id", optionID)
	}
	return &opt, nil
}
