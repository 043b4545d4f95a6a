package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/KamilKorczek/project-pizzeria/internal/models"
)

// Parse decodes a menu document. Schema problems are reported with their line
// and wrap models.ErrInvalidSchema.
func Parse(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidSchema, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty menu", models.ErrInvalidSchema)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, schemaError(root, "menu must be a mapping")
	}

	var products []models.Product
	found := false
	err := eachPair(root, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "products":
			found = true
			products, err = decodeProductMap(value)
		case "product":
			found = true
			products, err = decodeProductList(value)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, schemaError(root, `menu has no "products" or "product" key`)
	}

	return New(products...)
}

func decodeProductMap(n *yaml.Node) ([]models.Product, error) {
	if n.Kind != yaml.MappingNode {
		return nil, schemaError(n, "products must be a mapping of id to product")
	}
	var products []models.Product
	err := eachPair(n, func(id string, value *yaml.Node) error {
		p, err := decodeProduct(id, value)
		if err != nil {
			return err
		}
		products = append(products, p)
		return nil
	})
	return products, err
}

func decodeProductList(n *yaml.Node) ([]models.Product, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, schemaError(n, "product must be a list")
	}
	products := make([]models.Product, 0, len(n.Content))
	for _, item := range n.Content {
		p, err := decodeProduct("", item)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeProduct(id string, n *yaml.Node) (models.Product, error) {
	p := models.Product{ID: id}
	if n.Kind != yaml.MappingNode {
		return p, schemaError(n, "product %q must be a mapping", id)
	}

	hasPrice := false
	err := eachPair(n, func(key string, value *yaml.Node) error {
		var err error
		switch key {
		case "id":
			p.ID, err = decodeString(value, key)
		case "name":
			p.Name, err = decodeString(value, key)
		case "description":
			p.Description, err = decodeString(value, key)
		case "price":
			hasPrice = true
			p.BasePrice, err = decodeNumber(value, key)
		case "params":
			p.Categories, err = decodeCategories(value)
		}
		return err
	})
	if err != nil {
		return p, err
	}
	if p.ID == "" {
		return p, schemaError(n, "product without id")
	}
	if !hasPrice {
		return p, schemaError(n, "product %q has no price", p.ID)
	}
	return p, nil
}

func decodeCategories(n *yaml.Node) ([]models.Category, error) {
	if n.Kind != yaml.MappingNode {
		return nil, schemaError(n, "params must be a mapping of id to category")
	}
	var categories []models.Category
	err := eachPair(n, func(id string, value *yaml.Node) error {
		c := models.Category{ID: id, Options: []models.Option{}}
		if value.Kind != yaml.MappingNode {
			return schemaError(value, "category %q must be a mapping", id)
		}
		err := eachPair(value, func(key string, v *yaml.Node) error {
			var err error
			switch key {
			case "label":
				c.Label, err = decodeString(v, key)
			case "type":
				c.Type, err = decodeString(v, key)
			case "options":
				c.Options, err = decodeOptions(v)
			}
			return err
		})
		if err != nil {
			return err
		}
		categories = append(categories, c)
		return nil
	})
	return categories, err
}

func decodeOptions(n *yaml.Node) ([]models.Option, error) {
	if n.Kind != yaml.MappingNode {
		return nil, schemaError(n, "options must be a mapping of id to option")
	}
	options := []models.Option{}
	err := eachPair(n, func(id string, value *yaml.Node) error {
		o := models.Option{ID: id}
		if value.Kind != yaml.MappingNode {
			return schemaError(value, "option %q must be a mapping", id)
		}
		hasPrice := false
		err := eachPair(value, func(key string, v *yaml.Node) error {
			var err error
			switch key {
			case "label":
				o.Label, err = decodeString(v, key)
			case "price":
				hasPrice = true
				o.PriceDelta, err = decodeNumber(v, key)
			case "default":
				o.Default, err = decodeBool(v, key)
			}
			return err
		})
		if err != nil {
			return err
		}
		if !hasPrice {
			return schemaError(value, "option %q has no price", id)
		}
		options = append(options, o)
		return nil
	})
	return options, err
}

// eachPair calls fn for every key/value of a mapping node, in document order.
func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i]
		if key.Kind != yaml.ScalarNode {
			return schemaError(key, "keys must be scalars")
		}
		if err := fn(key.Value, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func decodeString(n *yaml.Node, field string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", schemaError(n, "%s must be a string", field)
	}
	return n.Value, nil
}

func decodeNumber(n *yaml.Node, field string) (float64, error) {
	if n.Kind != yaml.ScalarNode || (n.Tag != "!!int" && n.Tag != "!!float") {
		return 0, schemaError(n, "%s must be a number, got %q", field, n.Value)
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, schemaError(n, "%s: %v", field, err)
	}
	return f, nil
}

// decodeBool accepts only true booleans; strings such as "yes" or numbers are
// rejected instead of being coerced.
func decodeBool(n *yaml.Node, field string) (bool, error) {
	if n.Kind != yaml.ScalarNode || n.Tag != "!!bool" {
		return false, schemaError(n, "%s must be a boolean, got %q", field, n.Value)
	}
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, schemaError(n, "%s: %v", field, err)
	}
	return b, nil
}

func schemaError(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", models.ErrInvalidSchema, n.Line, fmt.Sprintf(format, args...))
}
