// Package query walks a decoded NBT tree collecting tags by name.
package query

import (
	"bytes"
	"errors"

	"github.com/jntun/rave/internal/nbt"
)

// ErrNotFound is returned by FindOneByName when no tag matches. It is not
// used by FindManyByName: an empty result there is success, not an error.
var ErrNotFound = errors.New("no tag found with that name")

// FindManyByName returns every tag in the subtree rooted at root whose name
// equals name. A matching tag is included but not descended into — matches
// are never nested inside one another. List elements have no name and so
// can never themselves match, but Lists of Compounds are still searched.
//
// The result is a pure function of (name, root): calling it twice on the
// same tree yields equal sequences, and results are ordered pre-order
// (parent before children, members in wire order).
func FindManyByName(root *nbt.Tag, name []byte) []*nbt.Tag {
	var out []*nbt.Tag
	find(root, name, &out)
	return out
}

func find(tag *nbt.Tag, name []byte, out *[]*nbt.Tag) {
	if tag == nil {
		return
	}
	if bytes.Equal(tag.Name, name) {
		*out = append(*out, tag)
		return
	}
	switch p := tag.Payload.(type) {
	case nbt.PCompound:
		for i := range p.Tags {
			find(&p.Tags[i], name, out)
		}
	case nbt.PList:
		if p.ElemType != nbt.IDCompound {
			return
		}
		// List elements have no name of their own and so cannot match
		// themselves; only their members are searched.
		for _, item := range p.Items {
			compound, ok := item.(nbt.PCompound)
			if !ok {
				continue
			}
			for i := range compound.Tags {
				find(&compound.Tags[i], name, out)
			}
		}
	}
}

// FindOneByName returns the first tag found with the given name, or
// ErrNotFound if none exists. Preserved only for callers that want
// "at least one" semantics; the core query contract is FindManyByName.
func FindOneByName(root *nbt.Tag, name []byte) (*nbt.Tag, error) {
	found := FindManyByName(root, name)
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return found[0], nil
}
