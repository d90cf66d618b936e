package schema

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-studyform/pkg/model"
)

// Catalog indexes procedure documents by key. A procedure's key is its ref
// code, else its name, else the document file name without extension.
type Catalog struct {
	keys       []string
	procedures map[string]model.Procedure
}

// LoadCatalog loads every .json, .yaml and .yml document below root in fsys.
// loader must be able to read fs sources from the same fsys.
func LoadCatalog(ctx context.Context, loader Loader, fsys fs.FS, root string) (*Catalog, error) {
	if root == "" {
		root = "."
	}
	catalog := &Catalog{procedures: make(map[string]model.Procedure)}
	err := fs.WalkDir(fsys, root, func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isSchemaFile(name) {
			return nil
		}
		doc, err := loader.Load(ctx, SourceFromFS(name))
		if err != nil {
			return err
		}
		procedure, err := DecodeProcedure(doc)
		if err != nil {
			return err
		}
		return catalog.Add(procedureKey(procedure, name), procedure)
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Add registers procedure under key.
func (c *Catalog) Add(key string, procedure model.Procedure) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("schema: catalog key is required")
	}
	if c.procedures == nil {
		c.procedures = make(map[string]model.Procedure)
	}
	if _, exists := c.procedures[key]; exists {
		return fmt.Errorf("schema: duplicate procedure %q", key)
	}
	c.procedures[key] = procedure
	c.keys = append(c.keys, key)
	sort.Strings(c.keys)
	return nil
}

// Get returns the procedure registered under key.
func (c *Catalog) Get(key string) (model.Procedure, bool) {
	if c == nil {
		return model.Procedure{}, false
	}
	p, ok := c.procedures[key]
	return p, ok
}

// Keys lists registered keys in sorted order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

// Procedures returns all procedures ordered by key.
func (c *Catalog) Procedures() []model.Procedure {
	if c == nil {
		return nil
	}
	out := make([]model.Procedure, 0, len(c.keys))
	for _, key := range c.keys {
		out = append(out, c.procedures[key])
	}
	return out
}

func procedureKey(p model.Procedure, name string) string {
	if p.RefCode != "" {
		return p.RefCode
	}
	if p.Name != "" {
		return p.Name
	}
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
